package prediction

import "time"

// Outcome is the categorical result of one prediction against a match score.
type Outcome string

const (
	OutcomePending       Outcome = "PENDING"
	OutcomeExactScore    Outcome = "EXACT_SCORE"
	OutcomeCorrectResult Outcome = "CORRECT_RESULT"
	OutcomeIncorrect     Outcome = "INCORRECT"
)

func (o Outcome) IsScored() bool {
	return o == OutcomeExactScore || o == OutcomeCorrectResult || o == OutcomeIncorrect
}

// Prediction is a user's predicted score for one match.
type Prediction struct {
	ID            string
	MatchID       string
	UserID        string
	PredictedHome int
	PredictedAway int
	Outcome       Outcome
	UpdatedAt     time.Time
}

// OutcomeUpdate is a re-classification written back by the classifier.
type OutcomeUpdate struct {
	PredictionID string
	Outcome      Outcome
	UpdatedAt    time.Time
}
