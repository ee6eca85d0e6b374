package prize

import (
	"fmt"
	"strings"
	"time"
)

// Type is a prize category.
type Type string

const (
	TypeRound           Type = "ROUND"
	TypeMonthly         Type = "MONTHLY"
	TypeOverall         Type = "OVERALL"
	TypeMostExactScores Type = "MOST_EXACT_SCORES"
)

var typeOrder = map[Type]int{
	TypeRound:           0,
	TypeMonthly:         1,
	TypeOverall:         2,
	TypeMostExactScores: 3,
}

// Order sorts categories for reporting; unknown types sort last.
func (t Type) Order() int {
	if order, ok := typeOrder[t]; ok {
		return order
	}
	return len(typeOrder)
}

// IsEndOfSeason is true for categories paid once per season.
func (t Type) IsEndOfSeason() bool {
	return t != TypeRound && t != TypeMonthly
}

func ParseType(value string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := typeOrder[t]; !ok {
		return "", fmt.Errorf("unknown prize type %q", value)
	}
	return t, nil
}

// Setting is one paid rank of one category in a league. Amount is in minor units.
type Setting struct {
	ID       string
	LeagueID string
	Type     Type
	Rank     int
	Amount   int64
}

// Winning is an immutable payout record.
type Winning struct {
	ID          string
	LeagueID    string
	UserID      string
	SettingID   string
	Type        Type
	Amount      int64
	RoundNumber *int
	Year        *int
	Month       *int
	AwardedAt   time.Time
}

// Period identifies the set of winnings replaced together on settlement.
// RoundNumber is set for round prizes, Year and Month for monthly prizes, none for end-of-season prizes.
type Period struct {
	Type        Type
	RoundNumber int
	Year        int
	Month       int
}

func RoundPeriod(roundNumber int) Period {
	return Period{Type: TypeRound, RoundNumber: roundNumber}
}

func MonthPeriod(year int, month time.Month) Period {
	return Period{Type: TypeMonthly, Year: year, Month: int(month)}
}

func SeasonPeriod(t Type) Period {
	return Period{Type: t}
}

// Contains reports whether w belongs to the period.
func (p Period) Contains(w Winning) bool {
	if w.Type != p.Type {
		return false
	}
	switch p.Type {
	case TypeRound:
		return w.RoundNumber != nil && *w.RoundNumber == p.RoundNumber
	case TypeMonthly:
		return w.Year != nil && *w.Year == p.Year && w.Month != nil && *w.Month == p.Month
	default:
		return true
	}
}

// Stamp copies the period coordinates onto a winning.
func (p Period) Stamp(w Winning) Winning {
	w.Type = p.Type
	w.RoundNumber = nil
	w.Year = nil
	w.Month = nil
	switch p.Type {
	case TypeRound:
		n := p.RoundNumber
		w.RoundNumber = &n
	case TypeMonthly:
		y, m := p.Year, p.Month
		w.Year = &y
		w.Month = &m
	}
	return w
}

func (p Period) String() string {
	switch p.Type {
	case TypeRound:
		return fmt.Sprintf("%s:%d", p.Type, p.RoundNumber)
	case TypeMonthly:
		return fmt.Sprintf("%s:%04d-%02d", p.Type, p.Year, p.Month)
	default:
		return string(p.Type)
	}
}

// SettingsOf filters settings of one category, keyed by rank.
func SettingsOf(settings []Setting, t Type) map[int]Setting {
	out := make(map[int]Setting)
	for _, s := range settings {
		if s.Type == t {
			out[s.Rank] = s
		}
	}
	return out
}
