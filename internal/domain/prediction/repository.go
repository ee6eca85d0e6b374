package prediction

import "context"

type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListByMatches(ctx context.Context, matchIDs []string) ([]Prediction, error)
	UpdateOutcomes(ctx context.Context, updates []OutcomeUpdate) error
}
