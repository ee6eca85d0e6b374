package boost

import "time"

// Code identifies a boost kind. Only codes listed in multipliers change points.
type Code string

const (
	CodeDoubleUp Code = "DoubleUp"
)

var multipliers = map[Code]func(int) int{
	CodeDoubleUp: func(points int) int { return points * 2 },
}

// IsKnown reports whether the code maps to a multiplier.
func (c Code) IsKnown() bool {
	_, ok := multipliers[c]
	return ok
}

// Apply returns the boosted value of base points. Unknown codes leave points unchanged.
func (c Code) Apply(basePoints int) int {
	fn, ok := multipliers[c]
	if !ok {
		return basePoints
	}
	return fn(basePoints)
}

// Window restricts a boost to an inclusive range of round numbers.
type Window struct {
	StartRoundNumber int `json:"start_round_number"`
	EndRoundNumber   int `json:"end_round_number"`
	MaxUsesInWindow  int `json:"max_uses_in_window"`
}

func (w Window) Contains(roundNumber int) bool {
	return roundNumber >= w.StartRoundNumber && roundNumber <= w.EndRoundNumber
}

// Rule is a league's configuration for one boost code.
type Rule struct {
	LeagueID           string
	Code               Code
	IsEnabled          bool
	TotalUsesPerSeason int
	Windows            []Window
}

// WindowFor returns the window covering roundNumber.
func (r Rule) WindowFor(roundNumber int) (Window, bool) {
	for _, w := range r.Windows {
		if w.Contains(roundNumber) {
			return w, true
		}
	}
	return Window{}, false
}

// Usage records the single boost a member applied in one league round.
type Usage struct {
	LeagueID    string
	RoundID     string
	RoundNumber int
	UserID      string
	Code        Code
	UsedAt      time.Time
}
