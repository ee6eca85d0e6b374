package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
)

type RankingRepository struct {
	mu    sync.RWMutex
	items map[string][]ranking.MemberStats
}

func NewRankingRepository() *RankingRepository {
	return &RankingRepository{items: make(map[string][]ranking.MemberStats)}
}

func (r *RankingRepository) ListMemberStats(_ context.Context, leagueID string) ([]ranking.MemberStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]ranking.MemberStats{}, r.items[leagueID]...), nil
}

func (r *RankingRepository) ReplaceMemberStats(_ context.Context, leagueID string, stats []ranking.MemberStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[leagueID] = append([]ranking.MemberStats{}, stats...)
	return nil
}
