package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

// OutcomeService re-classifies predictions whenever a match score or status changes.
type OutcomeService struct {
	roundRepo      round.Repository
	predictionRepo prediction.Repository
	now            func() time.Time
}

func NewOutcomeService(roundRepo round.Repository, predictionRepo prediction.Repository) *OutcomeService {
	return &OutcomeService{
		roundRepo:      roundRepo,
		predictionRepo: predictionRepo,
		now:            time.Now,
	}
}

// ScoreMatch classifies every prediction of one match and returns the match.
func (s *OutcomeService) ScoreMatch(ctx context.Context, matchID string) (round.Match, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OutcomeService.ScoreMatch", attrMatchID.String(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return round.Match{}, 0, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	match, exists, err := s.roundRepo.GetMatch(ctx, matchID)
	if err != nil {
		return round.Match{}, 0, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return round.Match{}, 0, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, match.ID)
	if err != nil {
		return round.Match{}, 0, fmt.Errorf("list predictions by match: %w", err)
	}

	updated, err := s.writeOutcomes(ctx, map[string]round.Match{match.ID: match}, predictions)
	if err != nil {
		return round.Match{}, 0, err
	}
	return match, updated, nil
}

// ScoreRound classifies the predictions of every match currently in the round.
func (s *OutcomeService) ScoreRound(ctx context.Context, roundID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OutcomeService.ScoreRound", attrRoundID.String(roundID))
	defer span.End()

	matches, err := s.roundRepo.ListMatchesByRound(ctx, roundID)
	if err != nil {
		return 0, fmt.Errorf("list matches by round: %w", err)
	}
	if len(matches) == 0 {
		return 0, nil
	}

	byID := make(map[string]round.Match, len(matches))
	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
		matchIDs = append(matchIDs, m.ID)
	}

	predictions, err := s.predictionRepo.ListByMatches(ctx, matchIDs)
	if err != nil {
		return 0, fmt.Errorf("list predictions by matches: %w", err)
	}

	return s.writeOutcomes(ctx, byID, predictions)
}

// writeOutcomes persists only predictions whose outcome changed.
func (s *OutcomeService) writeOutcomes(ctx context.Context, matches map[string]round.Match, predictions []prediction.Prediction) (int, error) {
	now := s.now().UTC()
	updates := make([]prediction.OutcomeUpdate, 0, len(predictions))
	for _, p := range predictions {
		m, ok := matches[p.MatchID]
		if !ok {
			continue
		}
		outcome := prediction.Classify(p.PredictedHome, p.PredictedAway, m.HasResult(), m.HomeScore, m.AwayScore)
		if outcome == p.Outcome {
			continue
		}
		updates = append(updates, prediction.OutcomeUpdate{
			PredictionID: p.ID,
			Outcome:      outcome,
			UpdatedAt:    now,
		})
	}
	if len(updates) == 0 {
		return 0, nil
	}

	if err := s.predictionRepo.UpdateOutcomes(ctx, updates); err != nil {
		return 0, fmt.Errorf("update prediction outcomes: %w", err)
	}
	return len(updates), nil
}
