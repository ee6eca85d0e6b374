package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
)

type BoostRepository struct {
	mu     sync.RWMutex
	rules  map[string]boost.Rule
	usages map[string]boost.Usage
}

func NewBoostRepository(rules []boost.Rule) *BoostRepository {
	r := &BoostRepository{
		rules:  make(map[string]boost.Rule, len(rules)),
		usages: make(map[string]boost.Usage),
	}
	for _, rule := range rules {
		r.rules[ruleKey(rule.LeagueID, rule.Code)] = rule
	}
	return r
}

func ruleKey(leagueID string, code boost.Code) string {
	return leagueID + "|" + string(code)
}

func usageKey(leagueID, roundID, userID string) string {
	return leagueID + "|" + roundID + "|" + userID
}

func (r *BoostRepository) GetRule(_ context.Context, leagueID string, code boost.Code) (boost.Rule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[ruleKey(leagueID, code)]
	return rule, ok, nil
}

func (r *BoostRepository) ListRules(_ context.Context, leagueID string) ([]boost.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]boost.Rule, 0)
	for _, rule := range r.rules {
		if rule.LeagueID == leagueID {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (r *BoostRepository) GetUsage(_ context.Context, leagueID, roundID, userID string) (boost.Usage, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.usages[usageKey(leagueID, roundID, userID)]
	return u, ok, nil
}

func (r *BoostRepository) ListUsagesByRound(_ context.Context, leagueID, roundID string) ([]boost.Usage, error) {
	return r.filterUsages(func(u boost.Usage) bool {
		return u.LeagueID == leagueID && u.RoundID == roundID
	}), nil
}

func (r *BoostRepository) ListUsagesByUser(_ context.Context, leagueID, userID string) ([]boost.Usage, error) {
	return r.filterUsages(func(u boost.Usage) bool {
		return u.LeagueID == leagueID && u.UserID == userID
	}), nil
}

func (r *BoostRepository) CreateUsage(_ context.Context, usage boost.Usage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := usageKey(usage.LeagueID, usage.RoundID, usage.UserID)
	if _, exists := r.usages[key]; exists {
		return boost.ErrUsageExists
	}
	r.usages[key] = usage
	return nil
}

func (r *BoostRepository) filterUsages(keep func(boost.Usage) bool) []boost.Usage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]boost.Usage, 0)
	for _, u := range r.usages {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
