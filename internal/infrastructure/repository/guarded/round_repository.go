package guarded

import (
	"context"
	"fmt"

	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

// RoundRepository trips a circuit breaker when the match provider keeps failing,
// so a settlement run fails fast instead of piling up timeouts.
type RoundRepository struct {
	next    round.Repository
	breaker *resilience.CircuitBreaker
}

func NewRoundRepository(next round.Repository, cfg resilience.CircuitBreakerConfig) round.Repository {
	breaker := cfg.Build()
	if breaker == nil {
		return next
	}
	return &RoundRepository{next: next, breaker: breaker}
}

func (r *RoundRepository) GetSeason(ctx context.Context, seasonID string) (round.Season, bool, error) {
	var (
		out    round.Season
		exists bool
	)
	err := r.call("get season", func() error {
		var err error
		out, exists, err = r.next.GetSeason(ctx, seasonID)
		return err
	})
	return out, exists, err
}

func (r *RoundRepository) GetRound(ctx context.Context, roundID string) (round.Round, bool, error) {
	var (
		out    round.Round
		exists bool
	)
	err := r.call("get round", func() error {
		var err error
		out, exists, err = r.next.GetRound(ctx, roundID)
		return err
	})
	return out, exists, err
}

func (r *RoundRepository) ListRoundsBySeason(ctx context.Context, seasonID string) ([]round.Round, error) {
	var out []round.Round
	err := r.call("list rounds by season", func() error {
		var err error
		out, err = r.next.ListRoundsBySeason(ctx, seasonID)
		return err
	})
	return out, err
}

func (r *RoundRepository) GetMatch(ctx context.Context, matchID string) (round.Match, bool, error) {
	var (
		out    round.Match
		exists bool
	)
	err := r.call("get match", func() error {
		var err error
		out, exists, err = r.next.GetMatch(ctx, matchID)
		return err
	})
	return out, exists, err
}

func (r *RoundRepository) ListMatchesByRound(ctx context.Context, roundID string) ([]round.Match, error) {
	var out []round.Match
	err := r.call("list matches by round", func() error {
		var err error
		out, err = r.next.ListMatchesByRound(ctx, roundID)
		return err
	})
	return out, err
}

func (r *RoundRepository) call(op string, fn func() error) error {
	if err := r.breaker.Execute(fn, nil); err != nil {
		return fmt.Errorf("round provider %s: %w", op, err)
	}
	return nil
}
