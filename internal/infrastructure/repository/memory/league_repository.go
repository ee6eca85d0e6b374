package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[string]league.League
	orders  []string
	members map[string][]league.Member
}

func NewLeagueRepository(leagues []league.League, members []league.Member) *LeagueRepository {
	r := &LeagueRepository{
		items:   make(map[string]league.League, len(leagues)),
		orders:  make([]string, 0, len(leagues)),
		members: make(map[string][]league.Member),
	}
	for _, l := range leagues {
		r.items[l.ID] = l
		r.orders = append(r.orders, l.ID)
	}
	for _, m := range members {
		r.members[m.LeagueID] = append(r.members[m.LeagueID], m)
	}
	return r
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) ListBySeason(_ context.Context, seasonID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, id := range r.orders {
		if l := r.items[id]; l.SeasonID == seasonID {
			out = append(out, l)
		}
	}

	return out, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]league.Member(nil), r.members[leagueID]...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// PutMember inserts or replaces a membership.
func (r *LeagueRepository) PutMember(m league.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.members[m.LeagueID]
	for idx := range items {
		if items[idx].UserID == m.UserID {
			items[idx] = m
			return
		}
	}
	r.members[m.LeagueID] = append(items, m)
}
