package round

import (
	"strings"
	"time"
)

const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusPostponed  = "POSTPONED"
	StatusCancelled  = "CANCELLED"
)

// Season bounds a set of rounds. Monthly prizes walk StartDate..EndDate.
type Season struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// Round is a scheduled batch of matches sharing one prediction deadline.
type Round struct {
	ID          string
	SeasonID    string
	Number      int
	Status      string
	DeadlineUTC time.Time
}

// Period is the calendar month a round counts towards.
func (r Round) Period() (int, time.Month) {
	d := r.DeadlineUTC.UTC()
	return d.Year(), d.Month()
}

func (r Round) IsCompleted() bool {
	return NormalizeStatus(r.Status) == StatusCompleted
}

// Match is one fixture inside a round, already reconciled from the provider feed.
type Match struct {
	ID        string
	RoundID   string
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	Status    string
	HomeScore *int
	AwayScore *int
}

// HasResult reports whether the match has moved past scheduling and may carry a score.
func (m Match) HasResult() bool {
	status := NormalizeStatus(m.Status)
	return IsLiveStatus(status) || IsTerminalStatus(status)
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusInProgress, "LIVE", "IN_PLAY", "HT", "1H", "2H", "ET":
		return true
	default:
		return false
	}
}

// IsTerminalStatus is true once the score can no longer change.
func IsTerminalStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCompleted, "FINISHED", "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}
