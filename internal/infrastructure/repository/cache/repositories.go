package cache

import (
	"context"
	"slices"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

// LeagueRepository caches league configuration. Members are cached too because the
// engine reads them several times per league within one settlement.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

type leagueLookup struct {
	value  league.League
	exists bool
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	found, err := basecache.Load(ctx, r.cache, "league:id:"+leagueID, func(ctx context.Context) (leagueLookup, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		return leagueLookup{value: item, exists: exists}, err
	})
	if err != nil {
		return league.League{}, false, err
	}
	return found.value, found.exists, nil
}

func (r *LeagueRepository) ListBySeason(ctx context.Context, seasonID string) ([]league.League, error) {
	return loadSlice(ctx, r.cache, "league:season:"+seasonID, func(ctx context.Context) ([]league.League, error) {
		return r.next.ListBySeason(ctx, seasonID)
	})
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	return loadSlice(ctx, r.cache, "league:members:"+leagueID, func(ctx context.Context) ([]league.Member, error) {
		return r.next.ListMembers(ctx, leagueID)
	})
}

// PrizeRepository caches prize settings; the winnings ledger always reads through.
type PrizeRepository struct {
	next  prize.Repository
	cache *basecache.Store
}

func NewPrizeRepository(next prize.Repository, cache *basecache.Store) *PrizeRepository {
	return &PrizeRepository{next: next, cache: cache}
}

func (r *PrizeRepository) ListSettings(ctx context.Context, leagueID string) ([]prize.Setting, error) {
	return loadSlice(ctx, r.cache, "prize:settings:"+leagueID, func(ctx context.Context) ([]prize.Setting, error) {
		return r.next.ListSettings(ctx, leagueID)
	})
}

func (r *PrizeRepository) ListWinnings(ctx context.Context, leagueID string) ([]prize.Winning, error) {
	return r.next.ListWinnings(ctx, leagueID)
}

func (r *PrizeRepository) ReplaceWinnings(ctx context.Context, leagueID string, period prize.Period, rows []prize.Winning) error {
	return r.next.ReplaceWinnings(ctx, leagueID, period, rows)
}

// BoostRepository caches boost rules; usages always read through.
type BoostRepository struct {
	next  boost.Repository
	cache *basecache.Store
}

func NewBoostRepository(next boost.Repository, cache *basecache.Store) *BoostRepository {
	return &BoostRepository{next: next, cache: cache}
}

func (r *BoostRepository) GetRule(ctx context.Context, leagueID string, code boost.Code) (boost.Rule, bool, error) {
	rules, err := r.ListRules(ctx, leagueID)
	if err != nil {
		return boost.Rule{}, false, err
	}
	for _, rule := range rules {
		if rule.Code == code {
			return rule, true, nil
		}
	}
	return boost.Rule{}, false, nil
}

func (r *BoostRepository) ListRules(ctx context.Context, leagueID string) ([]boost.Rule, error) {
	return loadSlice(ctx, r.cache, "boost:rules:"+leagueID, func(ctx context.Context) ([]boost.Rule, error) {
		return r.next.ListRules(ctx, leagueID)
	})
}

func (r *BoostRepository) GetUsage(ctx context.Context, leagueID, roundID, userID string) (boost.Usage, bool, error) {
	return r.next.GetUsage(ctx, leagueID, roundID, userID)
}

func (r *BoostRepository) ListUsagesByRound(ctx context.Context, leagueID, roundID string) ([]boost.Usage, error) {
	return r.next.ListUsagesByRound(ctx, leagueID, roundID)
}

func (r *BoostRepository) ListUsagesByUser(ctx context.Context, leagueID, userID string) ([]boost.Usage, error) {
	return r.next.ListUsagesByUser(ctx, leagueID, userID)
}

// CreateUsage writes through; rules are unaffected so nothing is invalidated.
func (r *BoostRepository) CreateUsage(ctx context.Context, usage boost.Usage) error {
	return r.next.CreateUsage(ctx, usage)
}

// loadSlice hands every caller its own copy so callers may sort or append freely.
func loadSlice[T any](ctx context.Context, store *basecache.Store, key string, loader func(context.Context) ([]T, error)) ([]T, error) {
	items, err := basecache.Load(ctx, store, key, func(ctx context.Context) ([]T, error) {
		items, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}
	return append(make([]T, 0, len(items)), items...), nil
}
