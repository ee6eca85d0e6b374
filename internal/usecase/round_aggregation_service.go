package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

// RoundAggregationService rebuilds per-user outcome counts of a round from scratch.
type RoundAggregationService struct {
	roundRepo      round.Repository
	predictionRepo prediction.Repository
	resultRepo     result.Repository
	now            func() time.Time
}

func NewRoundAggregationService(
	roundRepo round.Repository,
	predictionRepo prediction.Repository,
	resultRepo result.Repository,
) *RoundAggregationService {
	return &RoundAggregationService{
		roundRepo:      roundRepo,
		predictionRepo: predictionRepo,
		resultRepo:     resultRepo,
		now:            time.Now,
	}
}

// AggregateRound replaces every RoundResult of the round. Users without a scored
// prediction in the round get no row.
func (s *RoundAggregationService) AggregateRound(ctx context.Context, roundID string) ([]result.RoundResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundAggregationService.AggregateRound", attrRoundID.String(roundID))
	defer span.End()

	matches, err := s.roundRepo.ListMatchesByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("list matches by round: %w", err)
	}

	rows := []result.RoundResult{}
	if len(matches) > 0 {
		matchIDs := make([]string, 0, len(matches))
		for _, m := range matches {
			matchIDs = append(matchIDs, m.ID)
		}

		predictions, err := s.predictionRepo.ListByMatches(ctx, matchIDs)
		if err != nil {
			return nil, fmt.Errorf("list predictions by matches: %w", err)
		}
		rows = aggregateOutcomes(roundID, predictions, s.now().UTC())
	}

	if err := s.resultRepo.ReplaceRoundResults(ctx, roundID, rows); err != nil {
		return nil, fmt.Errorf("replace round results: %w", err)
	}
	return rows, nil
}

func aggregateOutcomes(roundID string, predictions []prediction.Prediction, now time.Time) []result.RoundResult {
	byUser := make(map[string]*result.RoundResult)
	for _, p := range predictions {
		if !p.Outcome.IsScored() {
			continue
		}
		row, ok := byUser[p.UserID]
		if !ok {
			row = &result.RoundResult{RoundID: roundID, UserID: p.UserID, CalculatedAt: now}
			byUser[p.UserID] = row
		}
		row.Add(p.Outcome)
	}

	out := make([]result.RoundResult, 0, len(byUser))
	for _, row := range byUser {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out
}
