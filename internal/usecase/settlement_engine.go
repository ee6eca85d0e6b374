package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

const defaultSettlementWorkers = 4

// SettlementEngine runs the scoring pipeline: classify, aggregate, translate, boost,
// rank and settle. One round is settled at a time; leagues inside a round run in parallel.
type SettlementEngine struct {
	roundRepo   round.Repository
	leagueRepo  league.Repository
	outcomes    *OutcomeService
	aggregation *RoundAggregationService
	points      *LeaguePointsService
	boosts      *BoostService
	rankings    *RankingService
	prizes      *PrizeService
	queue       JobQueue
	settleDelay time.Duration
	workers     int
	logger      *logging.Logger
	flight      resilience.SingleFlight[RoundSettlement]
}

type SettlementEngineDeps struct {
	RoundRepo   round.Repository
	LeagueRepo  league.Repository
	Outcomes    *OutcomeService
	Aggregation *RoundAggregationService
	Points      *LeaguePointsService
	Boosts      *BoostService
	Rankings    *RankingService
	Prizes      *PrizeService
	// Queue receives a settle-round job once live scoring sees the round completed.
	Queue       JobQueue
	SettleDelay time.Duration
	Workers     int
	Logger      *logging.Logger
}

type LeagueSettlement struct {
	LeagueID      string `json:"league_id"`
	Members       int    `json:"members"`
	BoostsApplied int    `json:"boosts_applied"`
	Winnings      int    `json:"winnings"`
	MonthSettled  bool   `json:"month_settled"`
	SeasonSettled bool   `json:"season_settled"`
}

type RoundSettlement struct {
	RoundID         string             `json:"round_id"`
	SeasonID        string             `json:"season_id"`
	RoundNumber     int                `json:"round_number"`
	PredictionsLive int                `json:"predictions_rescored"`
	RoundResults    int                `json:"round_results"`
	Leagues         []LeagueSettlement `json:"leagues"`
	DurationMs      int64              `json:"duration_ms"`
}

type SeasonRecalculation struct {
	SeasonID string            `json:"season_id"`
	Rounds   []RoundSettlement `json:"rounds"`
}

type MatchScoring struct {
	MatchID          string `json:"match_id"`
	RoundID          string `json:"round_id"`
	Rescored         int    `json:"predictions_rescored"`
	RoundResults     int    `json:"round_results"`
	Leagues          int    `json:"leagues"`
	SettlementQueued bool   `json:"settlement_queued"`
}

type RoundStart struct {
	RoundID     string `json:"round_id"`
	Leagues     int    `json:"leagues"`
	Snapshotted int    `json:"members_snapshotted"`
}

func NewSettlementEngine(deps SettlementEngineDeps) *SettlementEngine {
	workers := deps.Workers
	if workers < 1 {
		workers = defaultSettlementWorkers
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	queue := deps.Queue
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	return &SettlementEngine{
		roundRepo:   deps.RoundRepo,
		leagueRepo:  deps.LeagueRepo,
		outcomes:    deps.Outcomes,
		aggregation: deps.Aggregation,
		points:      deps.Points,
		boosts:      deps.Boosts,
		rankings:    deps.Rankings,
		prizes:      deps.Prizes,
		queue:       queue,
		settleDelay: deps.SettleDelay,
		workers:     workers,
		logger:      logger,
	}
}

// StartRound freezes snapshot ranks for every league of the round's season.
func (e *SettlementEngine) StartRound(ctx context.Context, roundID string) (RoundStart, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementEngine.StartRound", attrRoundID.String(roundID))
	defer span.End()

	rd, seasonRounds, leagues, err := e.loadRound(ctx, roundID)
	if err != nil {
		return RoundStart{}, err
	}

	var mu sync.Mutex
	out := RoundStart{RoundID: rd.ID, Leagues: len(leagues)}

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(e.workers)
	for _, lg := range leagues {
		lg := lg
		p.Go(func(ctx context.Context) error {
			count, err := e.rankings.CaptureSnapshot(ctx, lg, rd, seasonRounds)
			if err != nil {
				return crerr.Wrapf(err, "capture snapshot league=%s", lg.ID)
			}
			mu.Lock()
			out.Snapshotted += count
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return RoundStart{}, err
	}

	e.logger.InfoContext(ctx, "round snapshot captured",
		"round_id", rd.ID,
		"leagues", out.Leagues,
		"members", out.Snapshotted,
	)
	return out, nil
}

// ScoreMatch is the live path: re-classify a match, rebuild its round aggregates and
// refresh live and stable ranks of every league in the season. Boosts are re-applied
// once the round is completed. Prizes are not touched.
func (e *SettlementEngine) ScoreMatch(ctx context.Context, matchID string) (MatchScoring, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementEngine.ScoreMatch", attrMatchID.String(matchID))
	defer span.End()

	match, rescored, err := e.outcomes.ScoreMatch(ctx, matchID)
	if err != nil {
		return MatchScoring{}, err
	}

	rd, seasonRounds, leagues, err := e.loadRound(ctx, match.RoundID)
	if err != nil {
		return MatchScoring{}, err
	}

	roundResults, err := e.aggregation.AggregateRound(ctx, rd.ID)
	if err != nil {
		return MatchScoring{}, crerr.Wrapf(err, "aggregate round=%s", rd.ID)
	}

	err = e.forEachLeague(ctx, leagues, func(ctx context.Context, lg league.League) error {
		rows, err := e.points.TranslateRound(ctx, lg, rd.ID, roundResults)
		if err != nil {
			return err
		}
		// A completed round may already be settled; its boosts must survive a rescore.
		if rd.IsCompleted() {
			if _, _, err := e.boosts.ApplyRoundBoosts(ctx, lg.ID, rd.ID, rows); err != nil {
				return err
			}
		}
		_, err = e.rankings.Recompute(ctx, lg, rd, seasonRounds)
		return err
	})
	if err != nil {
		return MatchScoring{}, err
	}

	queued := false
	if rd.IsCompleted() {
		queued = e.queueSettlement(ctx, rd)
	}

	e.logger.InfoContext(ctx, "match scored",
		"match_id", match.ID,
		"round_id", rd.ID,
		"predictions_rescored", rescored,
		"leagues", len(leagues),
		"settlement_queued", queued,
	)
	return MatchScoring{
		MatchID:          match.ID,
		RoundID:          rd.ID,
		Rescored:         rescored,
		RoundResults:     len(roundResults),
		Leagues:          len(leagues),
		SettlementQueued: queued,
	}, nil
}

// queueSettlement is best effort: a failed enqueue leaves the round for a manual
// settle-round run and does not fail live scoring.
func (e *SettlementEngine) queueSettlement(ctx context.Context, rd round.Round) bool {
	payload := map[string]string{"round_id": rd.ID}
	err := e.queue.Enqueue(ctx, settleRoundJobPath, payload, e.settleDelay, settleRoundDedupID(rd.ID))
	if crerr.Is(err, ErrJobQueueDisabled) {
		e.logger.DebugContext(ctx, "job queue disabled, round settlement not queued", "round_id", rd.ID)
		return false
	}
	if err != nil {
		e.logger.WarnContext(ctx, "queue round settlement failed", "round_id", rd.ID, "error", err)
		return false
	}
	return true
}

// SettleRound runs the full pipeline for a completed round. Concurrent calls for the
// same round share one run; re-running is idempotent.
func (e *SettlementEngine) SettleRound(ctx context.Context, roundID string) (RoundSettlement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementEngine.SettleRound", attrRoundID.String(roundID))
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	out, err, shared := e.flight.Do("settlement:round:"+roundID, func() (RoundSettlement, error) {
		return e.settleRoundOnce(ctx, roundID)
	})
	if err != nil {
		recordSpanError(span, err)
		return RoundSettlement{}, err
	}
	if shared {
		e.logger.DebugContext(ctx, "joined in-flight round settlement", "round_id", roundID)
	}
	return out, nil
}

func (e *SettlementEngine) settleRoundOnce(ctx context.Context, roundID string) (RoundSettlement, error) {
	start := time.Now()

	rd, seasonRounds, leagues, err := e.loadRound(ctx, roundID)
	if err != nil {
		return RoundSettlement{}, err
	}
	if !rd.IsCompleted() {
		return RoundSettlement{}, fmt.Errorf("%w: round=%s status=%s is not completed", ErrInvalidInput, rd.ID, rd.Status)
	}

	rescored, err := e.outcomes.ScoreRound(ctx, rd.ID)
	if err != nil {
		return RoundSettlement{}, crerr.Wrapf(err, "score round=%s", rd.ID)
	}

	roundResults, err := e.aggregation.AggregateRound(ctx, rd.ID)
	if err != nil {
		return RoundSettlement{}, crerr.Wrapf(err, "aggregate round=%s", rd.ID)
	}

	monthRounds, monthComplete := completedPeriod(seasonRounds, rd)
	seasonComplete := allCompleted(seasonRounds)

	var mu sync.Mutex
	out := RoundSettlement{
		RoundID:         rd.ID,
		SeasonID:        rd.SeasonID,
		RoundNumber:     rd.Number,
		PredictionsLive: rescored,
		RoundResults:    len(roundResults),
		Leagues:         make([]LeagueSettlement, 0, len(leagues)),
	}

	err = e.forEachLeague(ctx, leagues, func(ctx context.Context, lg league.League) error {
		row, err := e.settleLeague(ctx, lg, rd, seasonRounds, roundResults, monthRounds, monthComplete, seasonComplete)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Leagues = append(out.Leagues, row)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return RoundSettlement{}, err
	}

	sort.Slice(out.Leagues, func(i, j int) bool {
		return out.Leagues[i].LeagueID < out.Leagues[j].LeagueID
	})
	out.DurationMs = time.Since(start).Milliseconds()

	e.logger.InfoContext(ctx, "round settled",
		"round_id", rd.ID,
		"round_number", rd.Number,
		"predictions_rescored", rescored,
		"round_results", len(roundResults),
		"leagues", len(out.Leagues),
		"month_complete", monthComplete,
		"season_complete", seasonComplete,
		"duration_ms", out.DurationMs,
	)
	return out, nil
}

func (e *SettlementEngine) settleLeague(
	ctx context.Context,
	lg league.League,
	rd round.Round,
	seasonRounds []round.Round,
	roundResults []result.RoundResult,
	monthRounds []round.Round,
	monthComplete bool,
	seasonComplete bool,
) (LeagueSettlement, error) {
	rows, err := e.points.TranslateRound(ctx, lg, rd.ID, roundResults)
	if err != nil {
		return LeagueSettlement{}, err
	}

	rows, boosted, err := e.boosts.ApplyRoundBoosts(ctx, lg.ID, rd.ID, rows)
	if err != nil {
		return LeagueSettlement{}, err
	}

	if _, err := e.rankings.Recompute(ctx, lg, rd, seasonRounds); err != nil {
		return LeagueSettlement{}, err
	}

	winnings, err := e.prizes.SettleRound(ctx, lg, rd)
	if err != nil {
		return LeagueSettlement{}, err
	}

	out := LeagueSettlement{
		LeagueID:      lg.ID,
		Members:       len(rows),
		BoostsApplied: boosted,
		Winnings:      len(winnings),
	}

	if monthComplete {
		year, month := rd.Period()
		monthly, err := e.prizes.SettleMonth(ctx, lg, year, month, monthRounds)
		if err != nil {
			return LeagueSettlement{}, err
		}
		out.Winnings += len(monthly)
		out.MonthSettled = true
	}

	if seasonComplete {
		season, err := e.prizes.SettleSeason(ctx, lg, seasonRounds)
		if err != nil {
			return LeagueSettlement{}, err
		}
		out.Winnings += len(season)
		out.SeasonSettled = true
	}

	e.logger.DebugContext(ctx, "league round settled",
		"league_id", lg.ID,
		"round_id", rd.ID,
		"members", out.Members,
		"boosts_applied", out.BoostsApplied,
		"winnings", out.Winnings,
	)
	return out, nil
}

// RecalculateSeason settles every completed round in round-number order and stops at
// the first failure; later rounds are never settled on top of a failed one.
func (e *SettlementEngine) RecalculateSeason(ctx context.Context, seasonID string) (SeasonRecalculation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementEngine.RecalculateSeason", attrSeasonID.String(seasonID))
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return SeasonRecalculation{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	_, exists, err := e.roundRepo.GetSeason(ctx, seasonID)
	if err != nil {
		return SeasonRecalculation{}, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return SeasonRecalculation{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	rounds, err := e.roundRepo.ListRoundsBySeason(ctx, seasonID)
	if err != nil {
		return SeasonRecalculation{}, fmt.Errorf("list rounds by season: %w", err)
	}
	sortRounds(rounds)

	out := SeasonRecalculation{SeasonID: seasonID, Rounds: make([]RoundSettlement, 0, len(rounds))}
	for _, rd := range rounds {
		if !rd.IsCompleted() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, crerr.Mark(crerr.Wrapf(err, "recalculate season=%s before round=%d", seasonID, rd.Number), ErrSettlementAborted)
		}

		settled, err := e.SettleRound(ctx, rd.ID)
		if err != nil {
			e.logger.ErrorContext(ctx, "season recalculation aborted",
				"season_id", seasonID,
				"round_id", rd.ID,
				"round_number", rd.Number,
				"error", err,
			)
			recordSpanError(span, err)
			return out, crerr.Mark(crerr.Wrapf(err, "recalculate season=%s round=%d", seasonID, rd.Number), ErrSettlementAborted)
		}
		out.Rounds = append(out.Rounds, settled)
	}

	e.logger.InfoContext(ctx, "season recalculated",
		"season_id", seasonID,
		"rounds", len(out.Rounds),
	)
	return out, nil
}

func (e *SettlementEngine) loadRound(ctx context.Context, roundID string) (round.Round, []round.Round, []league.League, error) {
	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return round.Round{}, nil, nil, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}

	rd, exists, err := e.roundRepo.GetRound(ctx, roundID)
	if err != nil {
		return round.Round{}, nil, nil, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return round.Round{}, nil, nil, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	seasonRounds, err := e.roundRepo.ListRoundsBySeason(ctx, rd.SeasonID)
	if err != nil {
		return round.Round{}, nil, nil, fmt.Errorf("list rounds by season: %w", err)
	}
	sortRounds(seasonRounds)

	leagues, err := e.leagueRepo.ListBySeason(ctx, rd.SeasonID)
	if err != nil {
		return round.Round{}, nil, nil, fmt.Errorf("list leagues by season: %w", err)
	}
	return rd, seasonRounds, leagues, nil
}

// forEachLeague fans work out over a bounded ants pool and returns the first failure.
func (e *SettlementEngine) forEachLeague(ctx context.Context, leagues []league.League, fn func(context.Context, league.League) error) error {
	if len(leagues) == 0 {
		return nil
	}

	workerCount := e.workers
	if workerCount > len(leagues) {
		workerCount = len(leagues)
	}
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, lg := range leagues {
		lg := lg
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if err := fn(ctx, lg); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = crerr.Wrapf(err, "league=%s", lg.ID)
					cancel()
				}
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()
	return firstErr
}

// completedPeriod returns the rounds of rd's month and whether all of them are completed.
func completedPeriod(seasonRounds []round.Round, rd round.Round) ([]round.Round, bool) {
	rounds := samePeriod(seasonRounds, rd)
	return rounds, len(rounds) > 0 && allCompleted(rounds)
}

func allCompleted(rounds []round.Round) bool {
	if len(rounds) == 0 {
		return false
	}
	for _, r := range rounds {
		if !r.IsCompleted() {
			return false
		}
	}
	return true
}

func sortRounds(rounds []round.Round) {
	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].Number < rounds[j].Number
	})
}
