package result

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
)

// RoundResult holds one user's outcome counts across every scored match in a round.
type RoundResult struct {
	RoundID            string
	UserID             string
	ExactScoreCount    int
	CorrectResultCount int
	IncorrectCount     int
	CalculatedAt       time.Time
}

// Add counts one scored outcome. Pending outcomes are ignored.
func (r *RoundResult) Add(outcome prediction.Outcome) {
	switch outcome {
	case prediction.OutcomeExactScore:
		r.ExactScoreCount++
	case prediction.OutcomeCorrectResult:
		r.CorrectResultCount++
	case prediction.OutcomeIncorrect:
		r.IncorrectCount++
	}
}

// LeagueRoundResult is a RoundResult translated into one league's points.
// BoostedPoints equals BasePoints unless HasBoost is set.
type LeagueRoundResult struct {
	LeagueID         string
	RoundID          string
	UserID           string
	BasePoints       int
	BoostedPoints    int
	HasBoost         bool
	AppliedBoostCode string
	ExactScoreCount  int
	CalculatedAt     time.Time
}

// BasePoints converts outcome counts with a league's scoring weights.
func BasePoints(rr RoundResult, pointsForExactScore, pointsForCorrectResult int) int {
	return rr.ExactScoreCount*pointsForExactScore + rr.CorrectResultCount*pointsForCorrectResult
}

// OutcomePoints is the weight of a single scored outcome.
func OutcomePoints(outcome prediction.Outcome, pointsForExactScore, pointsForCorrectResult int) int {
	switch outcome {
	case prediction.OutcomeExactScore:
		return pointsForExactScore
	case prediction.OutcomeCorrectResult:
		return pointsForCorrectResult
	default:
		return 0
	}
}
