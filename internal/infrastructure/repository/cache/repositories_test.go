package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

type countingLeagueRepository struct {
	league.Repository
	getCalls     int
	membersCalls int
}

func (r *countingLeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	r.getCalls++
	return r.Repository.GetByID(ctx, leagueID)
}

func (r *countingLeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	r.membersCalls++
	return r.Repository.ListMembers(ctx, leagueID)
}

func TestLeagueRepository_CachesReads(t *testing.T) {
	t.Parallel()

	next := &countingLeagueRepository{
		Repository: memory.NewLeagueRepository(
			[]league.League{{ID: "l1", SeasonID: "s1"}},
			[]league.Member{{LeagueID: "l1", UserID: "u1", Status: league.MemberStatusApproved}},
		),
	}
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		if _, exists, err := repo.GetByID(context.Background(), "l1"); err != nil || !exists {
			t.Fatalf("GetByID exists=%v err=%v", exists, err)
		}
		members, err := repo.ListMembers(context.Background(), "l1")
		if err != nil || len(members) != 1 {
			t.Fatalf("ListMembers len=%d err=%v", len(members), err)
		}
	}
	if next.getCalls != 1 || next.membersCalls != 1 {
		t.Fatalf("expected one load each, got get=%d members=%d", next.getCalls, next.membersCalls)
	}

	if _, exists, err := repo.GetByID(context.Background(), "missing"); err != nil || exists {
		t.Fatalf("missing league must stay missing, exists=%v err=%v", exists, err)
	}
}

func TestBoostRepository_GetRuleFromCachedList(t *testing.T) {
	t.Parallel()

	next := memory.NewBoostRepository([]boost.Rule{
		{LeagueID: "l1", Code: boost.CodeDoubleUp, IsEnabled: true, TotalUsesPerSeason: 2},
	})
	repo := NewBoostRepository(next, basecache.NewStore(time.Minute))

	rule, exists, err := repo.GetRule(context.Background(), "l1", boost.CodeDoubleUp)
	if err != nil || !exists || rule.TotalUsesPerSeason != 2 {
		t.Fatalf("unexpected rule=%+v exists=%v err=%v", rule, exists, err)
	}
	if _, exists, _ := repo.GetRule(context.Background(), "l1", boost.Code("Triple")); exists {
		t.Fatalf("unknown code must not resolve")
	}

	usage := boost.Usage{LeagueID: "l1", RoundID: "r1", UserID: "u1", Code: boost.CodeDoubleUp}
	if err := repo.CreateUsage(context.Background(), usage); err != nil {
		t.Fatalf("CreateUsage error: %v", err)
	}
	if err := repo.CreateUsage(context.Background(), usage); err != boost.ErrUsageExists {
		t.Fatalf("expected ErrUsageExists, got %v", err)
	}
}
