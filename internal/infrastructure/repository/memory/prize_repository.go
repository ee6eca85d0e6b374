package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/prize"
)

type PrizeRepository struct {
	mu       sync.RWMutex
	settings map[string][]prize.Setting
	winnings map[string][]prize.Winning
}

func NewPrizeRepository(settings []prize.Setting) *PrizeRepository {
	r := &PrizeRepository{
		settings: make(map[string][]prize.Setting),
		winnings: make(map[string][]prize.Winning),
	}
	for _, s := range settings {
		r.settings[s.LeagueID] = append(r.settings[s.LeagueID], s)
	}
	return r
}

func (r *PrizeRepository) ListSettings(_ context.Context, leagueID string) ([]prize.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]prize.Setting{}, r.settings[leagueID]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type.Order() < out[j].Type.Order()
		}
		return out[i].Rank < out[j].Rank
	})
	return out, nil
}

func (r *PrizeRepository) ListWinnings(_ context.Context, leagueID string) ([]prize.Winning, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]prize.Winning{}, r.winnings[leagueID]...), nil
}

func (r *PrizeRepository) ReplaceWinnings(_ context.Context, leagueID string, period prize.Period, rows []prize.Winning) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]prize.Winning, 0, len(r.winnings[leagueID])+len(rows))
	for _, w := range r.winnings[leagueID] {
		if !period.Contains(w) {
			kept = append(kept, w)
		}
	}
	r.winnings[leagueID] = append(kept, rows...)
	return nil
}
