package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
)

const (
	testSeasonID = "season-1"
	testLeagueID = "league-1"
)

type sequenceIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("win-%03d", g.n), nil
}

type engineFixture struct {
	mu  sync.Mutex
	now time.Time

	rounds      *memory.RoundRepository
	predictions *memory.PredictionRepository
	leagues     *memory.LeagueRepository
	results     *memory.ResultRepository
	boosts      *memory.BoostRepository
	rankings    *memory.RankingRepository
	prizes      *memory.PrizeRepository

	boostService  *BoostService
	rankService   *RankingService
	prizeService  *PrizeService
	reportService *SettlementReportService
	engine        *SettlementEngine
}

type fixtureOption func(*fixtureOptions)

type fixtureOptions struct {
	policy     prize.SplitPolicy
	wrapResult func(result.Repository) result.Repository
	queue      JobQueue
}

func withJobQueue(queue JobQueue) fixtureOption {
	return func(o *fixtureOptions) { o.queue = queue }
}

func withResultRepository(wrap func(result.Repository) result.Repository) fixtureOption {
	return func(o *fixtureOptions) { o.wrapResult = wrap }
}

func withSplitPolicy(policy prize.SplitPolicy) fixtureOption {
	return func(o *fixtureOptions) { o.policy = policy }
}

func newEngineFixture(t *testing.T, seed memory.Seed, now time.Time, opts ...fixtureOption) *engineFixture {
	t.Helper()

	options := fixtureOptions{policy: prize.SplitPolicySplit}
	for _, opt := range opts {
		opt(&options)
	}

	f := &engineFixture{
		now:         now,
		rounds:      memory.NewRoundRepository(seed.Seasons, seed.Rounds, seed.Matches),
		predictions: memory.NewPredictionRepository(seed.Predictions),
		leagues:     memory.NewLeagueRepository(seed.Leagues, seed.Members),
		results:     memory.NewResultRepository(),
		boosts:      memory.NewBoostRepository(seed.BoostRules),
		rankings:    memory.NewRankingRepository(),
		prizes:      memory.NewPrizeRepository(seed.Prizes),
	}

	var resultRepo result.Repository = f.results
	if options.wrapResult != nil {
		resultRepo = options.wrapResult(f.results)
	}

	outcomes := NewOutcomeService(f.rounds, f.predictions)
	outcomes.now = f.clock
	aggregation := NewRoundAggregationService(f.rounds, f.predictions, resultRepo)
	aggregation.now = f.clock
	points := NewLeaguePointsService(f.leagues, resultRepo)
	points.now = f.clock
	f.boostService = NewBoostService(f.rounds, f.leagues, f.boosts, resultRepo)
	f.boostService.now = f.clock
	f.rankService = NewRankingService(f.leagues, f.rounds, f.predictions, resultRepo, f.boosts, f.rankings)
	f.rankService.now = f.clock
	f.prizeService = NewPrizeService(f.leagues, resultRepo, f.prizes, &sequenceIDGenerator{}, options.policy)
	f.prizeService.now = f.clock
	f.reportService = NewSettlementReportService(f.leagues, f.rounds, f.prizes)
	f.reportService.now = f.clock

	f.engine = NewSettlementEngine(SettlementEngineDeps{
		RoundRepo:   f.rounds,
		LeagueRepo:  f.leagues,
		Outcomes:    outcomes,
		Aggregation: aggregation,
		Points:      points,
		Boosts:      f.boostService,
		Rankings:    f.rankService,
		Prizes:      f.prizeService,
		Queue:       options.queue,
		Workers:     2,
	})
	return f
}

func (f *engineFixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *engineFixture) setNow(now time.Time) {
	f.mu.Lock()
	f.now = now
	f.mu.Unlock()
}

func (f *engineFixture) finishMatch(t *testing.T, matchID, status string, home, away int) {
	t.Helper()

	m, exists, err := f.rounds.GetMatch(context.Background(), matchID)
	if err != nil || !exists {
		t.Fatalf("get match %s: exists=%v err=%v", matchID, exists, err)
	}
	m.Status = status
	m.HomeScore = &home
	m.AwayScore = &away
	f.rounds.PutMatch(m)
}

func (f *engineFixture) completeRound(t *testing.T, roundID string) {
	t.Helper()

	rd, exists, err := f.rounds.GetRound(context.Background(), roundID)
	if err != nil || !exists {
		t.Fatalf("get round %s: exists=%v err=%v", roundID, exists, err)
	}
	rd.Status = round.StatusCompleted
	f.rounds.PutRound(rd)
}

var (
	r1Deadline = time.Date(2026, time.March, 7, 14, 0, 0, 0, time.UTC)
	r2Deadline = time.Date(2026, time.March, 21, 14, 0, 0, 0, time.UTC)
	r3Deadline = time.Date(2026, time.April, 4, 14, 0, 0, 0, time.UTC)
)

// scenarioSeed is a three-round season from March to May with three approved members
// and one pending member. Round 1 and 2 fall in March, round 3 in April.
func scenarioSeed() memory.Seed {
	predict := func(matchID, userID string, home, away int) prediction.Prediction {
		return prediction.Prediction{
			ID:            matchID + "-" + userID,
			MatchID:       matchID,
			UserID:        userID,
			PredictedHome: home,
			PredictedAway: away,
		}
	}

	return memory.Seed{
		Seasons: []round.Season{{
			ID:        testSeasonID,
			Name:      "Spring",
			StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC),
		}},
		Rounds: []round.Round{
			{ID: "r1", SeasonID: testSeasonID, Number: 1, Status: round.StatusScheduled, DeadlineUTC: r1Deadline},
			{ID: "r2", SeasonID: testSeasonID, Number: 2, Status: round.StatusScheduled, DeadlineUTC: r2Deadline},
			{ID: "r3", SeasonID: testSeasonID, Number: 3, Status: round.StatusScheduled, DeadlineUTC: r3Deadline},
		},
		Matches: []round.Match{
			{ID: "r1-m1", RoundID: "r1", HomeTeam: "Lions", AwayTeam: "Tigers", KickoffAt: r1Deadline.Add(time.Hour)},
			{ID: "r2-m1", RoundID: "r2", HomeTeam: "Hawks", AwayTeam: "Wolves", KickoffAt: r2Deadline.Add(time.Hour)},
			{ID: "r3-m1", RoundID: "r3", HomeTeam: "Lions", AwayTeam: "Hawks", KickoffAt: r3Deadline.Add(time.Hour)},
		},
		Predictions: []prediction.Prediction{
			predict("r1-m1", "u1", 2, 1),
			predict("r1-m1", "u2", 1, 0),
			predict("r1-m1", "u3", 0, 2),
			predict("r1-m1", "u4", 2, 1),
			predict("r2-m1", "u1", 0, 0),
			predict("r2-m1", "u2", 1, 1),
			predict("r2-m1", "u3", 2, 2),
			predict("r3-m1", "u1", 1, 0),
			predict("r3-m1", "u2", 0, 1),
			predict("r3-m1", "u3", 0, 3),
		},
		Leagues: []league.League{{
			ID:                     testLeagueID,
			Name:                   "Office",
			SeasonID:               testSeasonID,
			PointsForExactScore:    3,
			PointsForCorrectResult: 1,
			EntryCost:              2000,
			EntryDeadlineUTC:       time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
		}},
		Members: []league.Member{
			{LeagueID: testLeagueID, UserID: "u1", DisplayName: "Ana", Status: league.MemberStatusApproved},
			{LeagueID: testLeagueID, UserID: "u2", DisplayName: "Budi", Status: league.MemberStatusApproved},
			{LeagueID: testLeagueID, UserID: "u3", DisplayName: "Citra", Status: league.MemberStatusApproved},
			{LeagueID: testLeagueID, UserID: "u4", DisplayName: "Dodi", Status: league.MemberStatusPending},
		},
		BoostRules: []boost.Rule{{
			LeagueID:           testLeagueID,
			Code:               boost.CodeDoubleUp,
			IsEnabled:          true,
			TotalUsesPerSeason: 2,
		}},
		Prizes: []prize.Setting{
			{ID: "p-round", LeagueID: testLeagueID, Type: prize.TypeRound, Rank: 1, Amount: 300},
			{ID: "p-month", LeagueID: testLeagueID, Type: prize.TypeMonthly, Rank: 1, Amount: 600},
			{ID: "p-overall", LeagueID: testLeagueID, Type: prize.TypeOverall, Rank: 1, Amount: 1000},
			{ID: "p-exact", LeagueID: testLeagueID, Type: prize.TypeMostExactScores, Rank: 1, Amount: 200},
		},
	}
}
