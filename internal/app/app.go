package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/league"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/guarded"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-league/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// Repositories is the storage surface the engine is built on.
type Repositories struct {
	Rounds      round.Repository
	Predictions prediction.Repository
	Leagues     league.Repository
	Results     result.Repository
	Boosts      boost.Repository
	Rankings    ranking.Repository
	Prizes      prize.Repository
}

// Container holds the wired services shared by the HTTP server and the CLI.
type Container struct {
	Engine   *usecase.SettlementEngine
	Reports  *usecase.SettlementReportService
	Rankings *usecase.RankingService
	Boosts   *usecase.BoostService

	db *sqlx.DB
}

func NewContainer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		repos Repositories
		db    *sqlx.DB
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		repos = newMemoryRepositories(memory.DemoSeed())
		logger.Info("storage ready", "driver", cfg.StorageDriver)
	case config.StoragePostgres:
		var err error
		db, err = openDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.BootstrapSeed {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("bootstrap seed: %w", err)
			}
		}
		repos = newPostgresRepositories(db)
		logger.Info("storage ready", "driver", cfg.StorageDriver, "bootstrap_seed", cfg.BootstrapSeed)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	repos.Rounds = guarded.NewRoundRepository(repos.Rounds, cfg.RoundProviderCircuit)
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.Leagues = cache.NewLeagueRepository(repos.Leagues, store)
		repos.Prizes = cache.NewPrizeRepository(repos.Prizes, store)
		repos.Boosts = cache.NewBoostRepository(repos.Boosts, store)
	}

	container := buildContainer(cfg, repos, logger)
	container.db = db
	return container, nil
}

func buildContainer(cfg config.Config, repos Repositories, logger *logging.Logger) *Container {
	outcomes := usecase.NewOutcomeService(repos.Rounds, repos.Predictions)
	aggregation := usecase.NewRoundAggregationService(repos.Rounds, repos.Predictions, repos.Results)
	points := usecase.NewLeaguePointsService(repos.Leagues, repos.Results)
	boosts := usecase.NewBoostService(repos.Rounds, repos.Leagues, repos.Boosts, repos.Results)
	rankings := usecase.NewRankingService(repos.Leagues, repos.Rounds, repos.Predictions, repos.Results, repos.Boosts, repos.Rankings)
	prizes := usecase.NewPrizeService(repos.Leagues, repos.Results, repos.Prizes, idgen.NewUUIDGenerator(), cfg.PrizeSplitPolicy)

	engine := usecase.NewSettlementEngine(usecase.SettlementEngineDeps{
		RoundRepo:   repos.Rounds,
		LeagueRepo:  repos.Leagues,
		Outcomes:    outcomes,
		Aggregation: aggregation,
		Points:      points,
		Boosts:      boosts,
		Rankings:    rankings,
		Prizes:      prizes,
		Queue:       newJobQueue(cfg, logger),
		SettleDelay: cfg.SettlementDispatchDelay,
		Workers:     cfg.SettlementWorkers,
		Logger:      logger,
	})

	return &Container{
		Engine:   engine,
		Reports:  usecase.NewSettlementReportService(repos.Leagues, repos.Rounds, repos.Prizes),
		Rankings: rankings,
		Boosts:   boosts,
	}
}

func newJobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		return usecase.NewNoopJobQueue()
	}
	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		Circuit:          cfg.QStashCircuit,
	}, logger.With("component", "qstash"))
}

func newMemoryRepositories(seed memory.Seed) Repositories {
	return Repositories{
		Rounds:      memory.NewRoundRepository(seed.Seasons, seed.Rounds, seed.Matches),
		Predictions: memory.NewPredictionRepository(seed.Predictions),
		Leagues:     memory.NewLeagueRepository(seed.Leagues, seed.Members),
		Results:     memory.NewResultRepository(),
		Boosts:      memory.NewBoostRepository(seed.BoostRules),
		Rankings:    memory.NewRankingRepository(),
		Prizes:      memory.NewPrizeRepository(seed.Prizes),
	}
}

func newPostgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Rounds:      postgres.NewRoundRepository(db),
		Predictions: postgres.NewPredictionRepository(db),
		Leagues:     postgres.NewLeagueRepository(db),
		Results:     postgres.NewResultRepository(db),
		Boosts:      postgres.NewBoostRepository(db),
		Rankings:    postgres.NewRankingRepository(db),
		Prizes:      postgres.NewPrizeRepository(db),
	}
}

// Close releases the database pool when one was opened.
func (c *Container) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func NewHTTPServer(cfg config.Config, container *Container, logger *logging.Logger) (*http.Server, error) {
	if container == nil {
		return nil, fmt.Errorf("app container cannot be nil")
	}

	handler := httpapi.NewHandler(httpapi.Services{
		Engine:   container.Engine,
		Reports:  container.Reports,
		Rankings: container.Rankings,
		Boosts:   container.Boosts,
	}, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		ServiceName:        cfg.ServiceName,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
