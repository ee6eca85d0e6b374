package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

func TestBoostService_UseBoost_OncePerRound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newEngineFixture(t, scenarioSeed(), r1Deadline.Add(-time.Hour))
	req := BoostRequest{LeagueID: testLeagueID, RoundID: "r1", UserID: "u1", Code: boost.CodeDoubleUp}

	first, err := f.boostService.UseBoost(ctx, req)
	if err != nil {
		t.Fatalf("UseBoost error: %v", err)
	}
	if !first.CanUse || first.RemainingSeasonUses != 1 {
		t.Fatalf("unexpected first selection: %+v", first)
	}

	second, err := f.boostService.UseBoost(ctx, req)
	if err != nil {
		t.Fatalf("second UseBoost error: %v", err)
	}
	if second.CanUse || !second.AlreadyUsedThisRound || second.Reason != boost.ReasonAlreadyUsedThisRound {
		t.Fatalf("expected already used rejection, got %+v", second)
	}

	usages, err := f.boosts.ListUsagesByRound(ctx, testLeagueID, "r1")
	if err != nil {
		t.Fatalf("list usages: %v", err)
	}
	if len(usages) != 1 {
		t.Fatalf("expected exactly one usage row, got %d", len(usages))
	}
}

func TestBoostService_UseBoost_Rejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seed := scenarioSeed()
	seed.BoostRules[0].Windows = []boost.Window{
		{StartRoundNumber: 1, EndRoundNumber: 2, MaxUsesInWindow: 1},
		{StartRoundNumber: 3, EndRoundNumber: 3, MaxUsesInWindow: 0},
	}
	seed.Rounds = append(seed.Rounds, round.Round{ID: "other-r1", SeasonID: "season-2", Number: 1, DeadlineUTC: r3Deadline})
	f := newEngineFixture(t, seed, r1Deadline.Add(-time.Hour))

	useDoubleUp(t, f, "r1", "u1")

	tests := []struct {
		name   string
		now    time.Time
		req    BoostRequest
		reason boost.Reason
	}{
		{
			name:   "window limit reached",
			now:    r1Deadline.Add(time.Hour),
			req:    BoostRequest{LeagueID: testLeagueID, RoundID: "r2", UserID: "u1", Code: boost.CodeDoubleUp},
			reason: boost.ReasonWindowLimitReached,
		},
		{
			name:   "window disabled",
			now:    r2Deadline.Add(time.Hour),
			req:    BoostRequest{LeagueID: testLeagueID, RoundID: "r3", UserID: "u2", Code: boost.CodeDoubleUp},
			reason: boost.ReasonWindowDisabled,
		},
		{
			name:   "round locked after deadline",
			now:    r2Deadline.Add(time.Minute),
			req:    BoostRequest{LeagueID: testLeagueID, RoundID: "r2", UserID: "u2", Code: boost.CodeDoubleUp},
			reason: boost.ReasonRoundLocked,
		},
		{
			name:   "pending member",
			now:    r1Deadline.Add(time.Hour),
			req:    BoostRequest{LeagueID: testLeagueID, RoundID: "r2", UserID: "u4", Code: boost.CodeDoubleUp},
			reason: boost.ReasonNotMember,
		},
		{
			name:   "round from another season",
			now:    r1Deadline.Add(time.Hour),
			req:    BoostRequest{LeagueID: testLeagueID, RoundID: "other-r1", UserID: "u2", Code: boost.CodeDoubleUp},
			reason: boost.ReasonRoundNotInSeason,
		},
		{
			name:   "code without rule",
			now:    r1Deadline.Add(time.Hour),
			req:    BoostRequest{LeagueID: testLeagueID, RoundID: "r2", UserID: "u2", Code: boost.Code("TripleUp")},
			reason: boost.ReasonNotEnabled,
		},
	}

	for _, tc := range tests {
		f.setNow(tc.now)
		got, err := f.boostService.UseBoost(ctx, tc.req)
		if err != nil {
			t.Fatalf("%s: UseBoost error: %v", tc.name, err)
		}
		if got.CanUse || got.Reason != tc.reason || got.Message == "" {
			t.Fatalf("%s: unexpected result %+v", tc.name, got)
		}
	}
}

func TestBoostService_Eligibility_ReportsRemainingUses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newEngineFixture(t, scenarioSeed(), r1Deadline.Add(-time.Hour))
	useDoubleUp(t, f, "r1", "u1")

	got, err := f.boostService.Eligibility(ctx, BoostRequest{LeagueID: testLeagueID, RoundID: "r2", UserID: "u1", Code: boost.CodeDoubleUp})
	if err != nil {
		t.Fatalf("Eligibility error: %v", err)
	}
	if !got.CanUse || got.RemainingSeasonUses != 1 || got.RemainingWindowUses != 1 {
		t.Fatalf("unexpected eligibility: %+v", got)
	}

	_, err = f.boostService.Eligibility(ctx, BoostRequest{LeagueID: "missing", RoundID: "r2", UserID: "u1", Code: boost.CodeDoubleUp})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, err = f.boostService.Eligibility(ctx, BoostRequest{LeagueID: testLeagueID, RoundID: "r2"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
