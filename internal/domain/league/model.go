package league

import (
	"fmt"
	"time"
)

const (
	MemberStatusPending  = "PENDING"
	MemberStatusApproved = "APPROVED"
	MemberStatusRejected = "REJECTED"
)

// League is a prediction league bound to one season with its own scoring weights.
type League struct {
	ID                     string
	Name                   string
	SeasonID               string
	PointsForExactScore    int
	PointsForCorrectResult int
	// EntryCost is in minor currency units.
	EntryCost        int64
	EntryDeadlineUTC time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.SeasonID == "" {
		return fmt.Errorf("league season is required")
	}
	if l.PointsForExactScore < 0 || l.PointsForCorrectResult < 0 {
		return fmt.Errorf("league point values must be >= 0")
	}
	if l.EntryCost < 0 {
		return fmt.Errorf("league entry cost must be >= 0")
	}

	return nil
}

// EntryDeadlinePassed is true once no more members can join.
func (l League) EntryDeadlinePassed(now time.Time) bool {
	if l.EntryDeadlineUTC.IsZero() {
		return false
	}
	return !now.Before(l.EntryDeadlineUTC)
}

// Member is a user's membership in a league.
type Member struct {
	LeagueID    string
	UserID      string
	DisplayName string
	Status      string
	JoinedAt    time.Time
}

func (m Member) IsApproved() bool {
	return m.Status == MemberStatusApproved
}
