package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

func statsByUser(t *testing.T, f *engineFixture) map[string]ranking.MemberStats {
	t.Helper()

	items, err := f.rankings.ListMemberStats(context.Background(), testLeagueID)
	if err != nil {
		t.Fatalf("list member stats: %v", err)
	}
	out := make(map[string]ranking.MemberStats, len(items))
	for _, item := range items {
		out[item.UserID] = item
	}
	return out
}

func leagueRowsByUser(t *testing.T, f *engineFixture, roundID string) map[string]result.LeagueRoundResult {
	t.Helper()

	rows, err := f.results.ListLeagueRoundResults(context.Background(), testLeagueID, []string{roundID})
	if err != nil {
		t.Fatalf("list league round results: %v", err)
	}
	out := make(map[string]result.LeagueRoundResult, len(rows))
	for _, row := range rows {
		out[row.UserID] = row
	}
	return out
}

func useDoubleUp(t *testing.T, f *engineFixture, roundID, userID string) {
	t.Helper()

	got, err := f.boostService.UseBoost(context.Background(), BoostRequest{
		LeagueID: testLeagueID,
		RoundID:  roundID,
		UserID:   userID,
		Code:     boost.CodeDoubleUp,
	})
	if err != nil {
		t.Fatalf("UseBoost error: %v", err)
	}
	if !got.CanUse {
		t.Fatalf("expected boost to be accepted, got %+v", got)
	}
}

func TestSettlementEngine_SettleRound_ExactScoreWithDoubleUp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newEngineFixture(t, scenarioSeed(), r1Deadline.Add(-4*time.Hour))
	useDoubleUp(t, f, "r1", "u1")

	f.setNow(r1Deadline.Add(6 * time.Hour))
	f.finishMatch(t, "r1-m1", round.StatusCompleted, 2, 1)
	f.completeRound(t, "r1")

	got, err := f.engine.SettleRound(ctx, "r1")
	if err != nil {
		t.Fatalf("SettleRound error: %v", err)
	}
	if got.RoundResults != 4 || len(got.Leagues) != 1 {
		t.Fatalf("unexpected settlement summary: %+v", got)
	}
	if got.Leagues[0].Members != 3 || got.Leagues[0].BoostsApplied != 1 || got.Leagues[0].Winnings != 1 {
		t.Fatalf("unexpected league summary: %+v", got.Leagues[0])
	}
	if got.Leagues[0].MonthSettled || got.Leagues[0].SeasonSettled {
		t.Fatalf("month and season must stay open: %+v", got.Leagues[0])
	}

	roundResults, err := f.results.ListRoundResults(ctx, "r1")
	if err != nil {
		t.Fatalf("list round results: %v", err)
	}
	if roundResults[0].UserID != "u1" || roundResults[0].ExactScoreCount != 1 || roundResults[0].CorrectResultCount != 0 {
		t.Fatalf("unexpected round result: %+v", roundResults[0])
	}

	rows := leagueRowsByUser(t, f, "r1")
	if _, ok := rows["u4"]; ok {
		t.Fatalf("pending member must not receive league points")
	}
	u1 := rows["u1"]
	if u1.BasePoints != 3 || u1.BoostedPoints != 6 || !u1.HasBoost || u1.AppliedBoostCode != string(boost.CodeDoubleUp) {
		t.Fatalf("unexpected boosted row: %+v", u1)
	}
	if u2 := rows["u2"]; u2.BasePoints != 1 || u2.BoostedPoints != 1 || u2.HasBoost {
		t.Fatalf("unexpected unboosted row: %+v", u2)
	}

	stats := statsByUser(t, f)
	if len(stats) != 3 {
		t.Fatalf("expected stats for approved members only, got %d", len(stats))
	}
	if stats["u1"].OverallPoints != 6 || stats["u1"].OverallRank != 1 || stats["u2"].OverallRank != 2 || stats["u3"].OverallRank != 3 {
		t.Fatalf("unexpected overall ranks: %+v", stats)
	}
	if stats["u1"].StableRoundPoints != 6 || stats["u1"].StableRoundRank != 1 {
		t.Fatalf("unexpected stable figures: %+v", stats["u1"])
	}

	winnings, err := f.prizes.ListWinnings(ctx, testLeagueID)
	if err != nil {
		t.Fatalf("list winnings: %v", err)
	}
	if len(winnings) != 1 || winnings[0].UserID != "u1" || winnings[0].Amount != 300 || *winnings[0].RoundNumber != 1 {
		t.Fatalf("unexpected winnings: %+v", winnings)
	}
}

func TestSettlementEngine_SettleRound_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newEngineFixture(t, scenarioSeed(), r1Deadline.Add(-time.Hour))
	useDoubleUp(t, f, "r1", "u1")

	f.setNow(r1Deadline.Add(6 * time.Hour))
	f.finishMatch(t, "r1-m1", round.StatusCompleted, 2, 1)
	f.completeRound(t, "r1")

	if _, err := f.engine.SettleRound(ctx, "r1"); err != nil {
		t.Fatalf("first SettleRound error: %v", err)
	}
	firstRows := leagueRowsByUser(t, f, "r1")
	firstStats := statsByUser(t, f)

	if _, err := f.engine.SettleRound(ctx, "r1"); err != nil {
		t.Fatalf("second SettleRound error: %v", err)
	}
	secondRows := leagueRowsByUser(t, f, "r1")
	secondStats := statsByUser(t, f)

	if secondRows["u1"].BoostedPoints != 6 {
		t.Fatalf("boost must not compound, got %d", secondRows["u1"].BoostedPoints)
	}
	for userID, row := range firstRows {
		if secondRows[userID] != row {
			t.Fatalf("row changed on re-settlement: first=%+v second=%+v", row, secondRows[userID])
		}
	}
	for userID, item := range firstStats {
		if secondStats[userID] != item {
			t.Fatalf("stats changed on re-settlement: first=%+v second=%+v", item, secondStats[userID])
		}
	}

	winnings, err := f.prizes.ListWinnings(ctx, testLeagueID)
	if err != nil {
		t.Fatalf("list winnings: %v", err)
	}
	if len(winnings) != 1 {
		t.Fatalf("re-settlement must replace winnings, got %d rows", len(winnings))
	}
}

func TestSettlementEngine_SettleRound_RequiresCompletedRound(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, scenarioSeed(), r1Deadline.Add(time.Hour))

	_, err := f.engine.SettleRound(context.Background(), "r1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = f.engine.SettleRound(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettlementEngine_FullSeason_SettlesMonthsAndSeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newEngineFixture(t, scenarioSeed(), r1Deadline.Add(-time.Hour))
	useDoubleUp(t, f, "r1", "u1")

	f.setNow(r1Deadline.Add(6 * time.Hour))
	f.finishMatch(t, "r1-m1", round.StatusCompleted, 2, 1)
	f.completeRound(t, "r1")
	if _, err := f.engine.SettleRound(ctx, "r1"); err != nil {
		t.Fatalf("settle r1: %v", err)
	}

	f.setNow(r2Deadline.Add(6 * time.Hour))
	f.finishMatch(t, "r2-m1", round.StatusCompleted, 1, 1)
	f.completeRound(t, "r2")
	r2, err := f.engine.SettleRound(ctx, "r2")
	if err != nil {
		t.Fatalf("settle r2: %v", err)
	}
	if !r2.Leagues[0].MonthSettled || r2.Leagues[0].SeasonSettled {
		t.Fatalf("march must settle after round 2, season must not: %+v", r2.Leagues[0])
	}

	f.setNow(r3Deadline.Add(6 * time.Hour))
	f.finishMatch(t, "r3-m1", round.StatusCompleted, 0, 1)
	f.completeRound(t, "r3")
	r3, err := f.engine.SettleRound(ctx, "r3")
	if err != nil {
		t.Fatalf("settle r3: %v", err)
	}
	if !r3.Leagues[0].MonthSettled || !r3.Leagues[0].SeasonSettled || r3.Leagues[0].Winnings != 5 {
		t.Fatalf("unexpected final round summary: %+v", r3.Leagues[0])
	}

	stats := statsByUser(t, f)
	if stats["u1"].OverallPoints != 7 || stats["u2"].OverallPoints != 7 || stats["u3"].OverallPoints != 2 {
		t.Fatalf("unexpected overall points: %+v", stats)
	}
	if stats["u1"].OverallRank != 1 || stats["u2"].OverallRank != 1 || stats["u3"].OverallRank != 3 {
		t.Fatalf("tied members must share rank 1: %+v", stats)
	}
	if stats["u2"].MonthRank != 1 || stats["u3"].MonthRank != 2 || stats["u1"].MonthRank != 3 {
		t.Fatalf("unexpected april ranks: %+v", stats)
	}

	report, err := f.reportService.Report(ctx, testLeagueID)
	if err != nil {
		t.Fatalf("Report error: %v", err)
	}
	assertSeasonReport(t, report)

	recalculated, err := f.engine.RecalculateSeason(ctx, testSeasonID)
	if err != nil {
		t.Fatalf("RecalculateSeason error: %v", err)
	}
	if len(recalculated.Rounds) != 3 {
		t.Fatalf("expected 3 recalculated rounds, got %d", len(recalculated.Rounds))
	}

	winnings, err := f.prizes.ListWinnings(ctx, testLeagueID)
	if err != nil {
		t.Fatalf("list winnings: %v", err)
	}
	if len(winnings) != 8 {
		t.Fatalf("recalculation must not append winnings, got %d rows", len(winnings))
	}
	again, err := f.reportService.Report(ctx, testLeagueID)
	if err != nil {
		t.Fatalf("Report after recalculation error: %v", err)
	}
	assertSeasonReport(t, again)
}

func assertSeasonReport(t *testing.T, report SettlementReport) {
	t.Helper()

	if !report.WinningsCalculated || report.EntryCount != 3 || report.TotalPrizePot != 6000 {
		t.Fatalf("unexpected pot header: %+v", report)
	}
	if report.TotalPaid != 3300 || report.TotalRemaining != 2700 || report.ProjectedPayout != 3900 {
		t.Fatalf("unexpected pot totals: paid=%d remaining=%d projected=%d", report.TotalPaid, report.TotalRemaining, report.ProjectedPayout)
	}

	wantRoundWinners := []string{"u1", "u2", "u2"}
	if len(report.RoundPrizes) != 3 {
		t.Fatalf("unexpected round lines: %+v", report.RoundPrizes)
	}
	for idx, line := range report.RoundPrizes {
		if line.RoundNumber != idx+1 || !line.Awarded || line.Winners[0].UserID != wantRoundWinners[idx] || line.Amount != 300 {
			t.Fatalf("unexpected round line %d: %+v", idx, line)
		}
	}

	if len(report.MonthlyPrizes) != 3 {
		t.Fatalf("unexpected monthly lines: %+v", report.MonthlyPrizes)
	}
	if m := report.MonthlyPrizes[0]; m.Month != 3 || !m.Awarded || m.Winners[0].DisplayName != "Ana" {
		t.Fatalf("unexpected march line: %+v", m)
	}
	if m := report.MonthlyPrizes[1]; m.Month != 4 || !m.Awarded || m.Winners[0].DisplayName != "Budi" {
		t.Fatalf("unexpected april line: %+v", m)
	}
	if m := report.MonthlyPrizes[2]; m.Month != 5 || m.Awarded || m.Amount != 600 || len(m.Winners) != 0 {
		t.Fatalf("unexpected may line: %+v", m)
	}

	if len(report.SeasonPrizes) != 2 {
		t.Fatalf("unexpected season lines: %+v", report.SeasonPrizes)
	}
	overall := report.SeasonPrizes[0]
	if overall.Type != prize.TypeOverall || overall.Amount != 1000 || len(overall.Winners) != 2 || overall.Winners[0].Amount != 500 {
		t.Fatalf("tied overall winners must split the prize: %+v", overall)
	}
	if exact := report.SeasonPrizes[1]; exact.Type != prize.TypeMostExactScores || exact.Winners[0].UserID != "u2" || exact.Amount != 200 {
		t.Fatalf("unexpected most exact scores line: %+v", exact)
	}

	if len(report.Members) != 3 {
		t.Fatalf("unexpected member totals: %+v", report.Members)
	}
	if m := report.Members[0]; m.UserID != "u2" || m.Total != 1900 || m.Round != 600 || m.Monthly != 600 || m.Other != 700 {
		t.Fatalf("unexpected leader: %+v", m)
	}
	if m := report.Members[1]; m.UserID != "u1" || m.Total != 1400 {
		t.Fatalf("unexpected runner up: %+v", m)
	}
	if m := report.Members[2]; m.UserID != "u3" || m.Total != 0 {
		t.Fatalf("unexpected last member: %+v", m)
	}
}

func TestSettlementEngine_FullPolicyPaysEveryTiedMember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seed := scenarioSeed()
	seed.Rounds = seed.Rounds[:1]
	seed.Matches = seed.Matches[:1]
	seed.Predictions = []prediction.Prediction{
		{ID: "p1", MatchID: "r1-m1", UserID: "u1", PredictedHome: 1, PredictedAway: 0},
		{ID: "p2", MatchID: "r1-m1", UserID: "u2", PredictedHome: 1, PredictedAway: 0},
	}
	f := newEngineFixture(t, seed, r1Deadline.Add(6*time.Hour), withSplitPolicy(prize.SplitPolicyFull))
	f.finishMatch(t, "r1-m1", round.StatusCompleted, 1, 0)
	f.completeRound(t, "r1")

	if _, err := f.engine.SettleRound(ctx, "r1"); err != nil {
		t.Fatalf("SettleRound error: %v", err)
	}

	winnings, err := f.prizes.ListWinnings(ctx, testLeagueID)
	if err != nil {
		t.Fatalf("list winnings: %v", err)
	}
	var roundPaid int64
	for _, w := range winnings {
		if w.Type == prize.TypeRound {
			if w.Amount != 300 {
				t.Fatalf("full policy must pay the configured amount, got %+v", w)
			}
			roundPaid += w.Amount
		}
	}
	if roundPaid != 600 {
		t.Fatalf("expected both tied members paid, total=%d", roundPaid)
	}
}

type failingResultRepository struct {
	result.Repository
	failRoundID string
}

var errInjectedWrite = errors.New("injected write failure")

func (r *failingResultRepository) ReplaceLeagueRoundResults(ctx context.Context, leagueID, roundID string, rows []result.LeagueRoundResult) error {
	if roundID == r.failRoundID {
		return errInjectedWrite
	}
	return r.Repository.ReplaceLeagueRoundResults(ctx, leagueID, roundID, rows)
}

func TestSettlementEngine_RecalculateSeason_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newEngineFixture(t, scenarioSeed(), r3Deadline.Add(6*time.Hour), withResultRepository(func(next result.Repository) result.Repository {
		return &failingResultRepository{Repository: next, failRoundID: "r2"}
	}))
	f.finishMatch(t, "r1-m1", round.StatusCompleted, 2, 1)
	f.finishMatch(t, "r2-m1", round.StatusCompleted, 1, 1)
	f.finishMatch(t, "r3-m1", round.StatusCompleted, 0, 1)
	f.completeRound(t, "r1")
	f.completeRound(t, "r2")
	f.completeRound(t, "r3")

	got, err := f.engine.RecalculateSeason(ctx, testSeasonID)
	if !crerr.Is(err, ErrSettlementAborted) {
		t.Fatalf("expected ErrSettlementAborted, got %v", err)
	}
	if !crerr.Is(err, errInjectedWrite) {
		t.Fatalf("expected the cause to be preserved, got %v", err)
	}
	if len(got.Rounds) != 1 || got.Rounds[0].RoundID != "r1" {
		t.Fatalf("expected only round 1 settled, got %+v", got.Rounds)
	}

	later, err := f.results.ListRoundResults(ctx, "r3")
	if err != nil {
		t.Fatalf("list round results: %v", err)
	}
	if len(later) != 0 {
		t.Fatalf("round after the failure must not be aggregated, got %d rows", len(later))
	}
}

func TestSettlementEngine_ScoreMatch_LiveAndStableViews(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seed := scenarioSeed()
	seed.Matches = append(seed.Matches, round.Match{ID: "r1-m2", RoundID: "r1", HomeTeam: "Hawks", AwayTeam: "Wolves"})
	seed.Predictions = append(seed.Predictions,
		prediction.Prediction{ID: "r1-m2-u1", MatchID: "r1-m2", UserID: "u1", PredictedHome: 0, PredictedAway: 0},
		prediction.Prediction{ID: "r1-m2-u2", MatchID: "r1-m2", UserID: "u2", PredictedHome: 3, PredictedAway: 0},
		prediction.Prediction{ID: "r1-m2-u3", MatchID: "r1-m2", UserID: "u3", PredictedHome: 1, PredictedAway: 1},
	)
	f := newEngineFixture(t, seed, r1Deadline.Add(-time.Hour))
	useDoubleUp(t, f, "r1", "u1")

	f.setNow(r1Deadline.Add(2 * time.Hour))
	f.finishMatch(t, "r1-m2", round.StatusCompleted, 3, 0)
	f.finishMatch(t, "r1-m1", round.StatusInProgress, 2, 1)

	if _, err := f.engine.ScoreMatch(ctx, "r1-m2"); err != nil {
		t.Fatalf("ScoreMatch r1-m2 error: %v", err)
	}
	got, err := f.engine.ScoreMatch(ctx, "r1-m1")
	if err != nil {
		t.Fatalf("ScoreMatch r1-m1 error: %v", err)
	}
	if got.Rescored != 4 || got.Leagues != 1 {
		t.Fatalf("unexpected scoring summary: %+v", got)
	}

	rows := leagueRowsByUser(t, f, "r1")
	if rows["u1"].HasBoost || rows["u1"].BoostedPoints != rows["u1"].BasePoints {
		t.Fatalf("live scoring must leave rows unboosted: %+v", rows["u1"])
	}

	stats := statsByUser(t, f)
	if stats["u1"].LiveRoundPoints != 6 || stats["u1"].LiveRoundRank != 1 {
		t.Fatalf("live view must project the recorded boost: %+v", stats["u1"])
	}
	if stats["u2"].LiveRoundPoints != 4 || stats["u2"].LiveRoundRank != 2 {
		t.Fatalf("unexpected live figures for u2: %+v", stats["u2"])
	}
	if stats["u2"].StableRoundPoints != 3 || stats["u2"].StableRoundRank != 1 {
		t.Fatalf("stable view must only count finished matches: %+v", stats["u2"])
	}
	if stats["u1"].StableRoundPoints != 0 || stats["u1"].StableRoundRank != 2 || stats["u3"].StableRoundRank != 2 {
		t.Fatalf("unexpected stable ranks: u1=%+v u3=%+v", stats["u1"], stats["u3"])
	}
	if stats["u1"].OverallPoints != 6 || stats["u1"].OverallRank != 1 {
		t.Fatalf("overall must include live round points: %+v", stats["u1"])
	}

	winnings, err := f.prizes.ListWinnings(ctx, testLeagueID)
	if err != nil {
		t.Fatalf("list winnings: %v", err)
	}
	if len(winnings) != 0 {
		t.Fatalf("live scoring must not settle prizes, got %+v", winnings)
	}
}

func TestSettlementEngine_StartRound_FreezesSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newEngineFixture(t, scenarioSeed(), r1Deadline.Add(6*time.Hour))
	f.finishMatch(t, "r1-m1", round.StatusCompleted, 2, 1)
	f.completeRound(t, "r1")
	if _, err := f.engine.SettleRound(ctx, "r1"); err != nil {
		t.Fatalf("SettleRound error: %v", err)
	}

	f.setNow(r2Deadline)
	start, err := f.engine.StartRound(ctx, "r2")
	if err != nil {
		t.Fatalf("StartRound error: %v", err)
	}
	if start.Snapshotted != 3 {
		t.Fatalf("expected 3 members snapshotted, got %+v", start)
	}

	f.finishMatch(t, "r2-m1", round.StatusInProgress, 1, 1)
	if _, err := f.engine.ScoreMatch(ctx, "r2-m1"); err != nil {
		t.Fatalf("ScoreMatch error: %v", err)
	}

	stats := statsByUser(t, f)
	if stats["u2"].OverallRank != 1 || stats["u1"].OverallRank != 1 {
		t.Fatalf("live overall must move with the round: %+v", stats)
	}
	if stats["u1"].SnapshotOverallRank != 1 || stats["u2"].SnapshotOverallRank != 2 || stats["u3"].SnapshotOverallRank != 3 {
		t.Fatalf("snapshot must keep pre-round ranks: %+v", stats)
	}
	if stats["u2"].SnapshotMonthRank != 2 || stats["u2"].SnapshotRoundID != "r2" {
		t.Fatalf("unexpected monthly snapshot: %+v", stats["u2"])
	}

	again, err := f.engine.StartRound(ctx, "r2")
	if err != nil {
		t.Fatalf("second StartRound error: %v", err)
	}
	if again.Snapshotted != 0 {
		t.Fatalf("snapshot must be captured once per round, got %+v", again)
	}
	if after := statsByUser(t, f); after["u2"].SnapshotOverallRank != 2 {
		t.Fatalf("snapshot overwritten: %+v", after["u2"])
	}
}
