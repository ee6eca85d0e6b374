package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/result"
)

type ResultRepository struct {
	mu           sync.RWMutex
	roundResults map[string][]result.RoundResult
	// leagueRound is keyed by league id then round id.
	leagueRound map[string]map[string][]result.LeagueRoundResult
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{
		roundResults: make(map[string][]result.RoundResult),
		leagueRound:  make(map[string]map[string][]result.LeagueRoundResult),
	}
}

func (r *ResultRepository) ListRoundResults(_ context.Context, roundID string) ([]result.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]result.RoundResult{}, r.roundResults[roundID]...), nil
}

func (r *ResultRepository) ReplaceRoundResults(_ context.Context, roundID string, rows []result.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := append([]result.RoundResult{}, rows...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].UserID < items[j].UserID
	})
	r.roundResults[roundID] = items
	return nil
}

func (r *ResultRepository) ListLeagueRoundResults(_ context.Context, leagueID string, roundIDs []string) ([]result.LeagueRoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]result.LeagueRoundResult, 0)
	byRound := r.leagueRound[leagueID]
	for _, roundID := range roundIDs {
		out = append(out, byRound[roundID]...)
	}
	return out, nil
}

func (r *ResultRepository) ReplaceLeagueRoundResults(_ context.Context, leagueID, roundID string, rows []result.LeagueRoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byRound, ok := r.leagueRound[leagueID]
	if !ok {
		byRound = make(map[string][]result.LeagueRoundResult)
		r.leagueRound[leagueID] = byRound
	}
	items := append([]result.LeagueRoundResult{}, rows...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].UserID < items[j].UserID
	})
	byRound[roundID] = items
	return nil
}
