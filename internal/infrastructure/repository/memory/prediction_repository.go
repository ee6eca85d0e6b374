package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Prediction
}

func NewPredictionRepository(predictions []prediction.Prediction) *PredictionRepository {
	items := make(map[string]prediction.Prediction, len(predictions))
	for _, p := range predictions {
		if p.Outcome == "" {
			p.Outcome = prediction.OutcomePending
		}
		items[p.ID] = p
	}
	return &PredictionRepository{items: items}
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	return r.ListByMatches(ctx, []string{matchID})
}

func (r *PredictionRepository) ListByMatches(_ context.Context, matchIDs []string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}

	out := make([]prediction.Prediction, 0)
	for _, p := range r.items {
		if _, ok := wanted[p.MatchID]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PredictionRepository) UpdateOutcomes(_ context.Context, updates []prediction.OutcomeUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range updates {
		p, ok := r.items[u.PredictionID]
		if !ok {
			continue
		}
		p.Outcome = u.Outcome
		p.UpdatedAt = u.UpdatedAt
		r.items[p.ID] = p
	}
	return nil
}

func (r *PredictionRepository) Put(p prediction.Prediction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.Outcome == "" {
		p.Outcome = prediction.OutcomePending
	}
	r.items[p.ID] = p
}
