package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

type RoundRepository struct {
	mu      sync.RWMutex
	seasons map[string]round.Season
	rounds  map[string]round.Round
	matches map[string]round.Match
}

func NewRoundRepository(seasons []round.Season, rounds []round.Round, matches []round.Match) *RoundRepository {
	r := &RoundRepository{
		seasons: make(map[string]round.Season, len(seasons)),
		rounds:  make(map[string]round.Round, len(rounds)),
		matches: make(map[string]round.Match, len(matches)),
	}
	for _, s := range seasons {
		r.seasons[s.ID] = s
	}
	for _, rd := range rounds {
		r.rounds[rd.ID] = rd
	}
	for _, m := range matches {
		r.matches[m.ID] = m
	}
	return r
}

func (r *RoundRepository) GetSeason(_ context.Context, seasonID string) (round.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.seasons[seasonID]
	return s, ok, nil
}

func (r *RoundRepository) GetRound(_ context.Context, roundID string) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rd, ok := r.rounds[roundID]
	return rd, ok, nil
}

func (r *RoundRepository) ListRoundsBySeason(_ context.Context, seasonID string) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0)
	for _, rd := range r.rounds {
		if rd.SeasonID == seasonID {
			out = append(out, rd)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *RoundRepository) GetMatch(_ context.Context, matchID string) (round.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[matchID]
	return m, ok, nil
}

func (r *RoundRepository) ListMatchesByRound(_ context.Context, roundID string) ([]round.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Match, 0)
	for _, m := range r.matches {
		if m.RoundID == roundID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// PutRound and PutMatch stand in for the fixture feed that owns these records.
func (r *RoundRepository) PutRound(rd round.Round) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rounds[rd.ID] = rd
}

func (r *RoundRepository) PutMatch(m round.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[m.ID] = m
}
