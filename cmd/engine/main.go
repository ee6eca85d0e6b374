package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/urfave/cli/v2"

	"github.com/riskibarqy/prediction-league/internal/app"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/observability"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "engine",
		Usage: "run prediction league settlement jobs from the command line",
		Commands: []*cli.Command{
			{
				Name:   "start-round",
				Usage:  "freeze snapshot ranks before a round kicks off",
				Flags:  []cli.Flag{requiredFlag("round", "round id")},
				Action: withContainer(func(c *cli.Context, container *app.Container) (any, error) {
					return container.Engine.StartRound(c.Context, c.String("round"))
				}),
			},
			{
				Name:   "score-match",
				Usage:  "re-score one match and refresh live standings",
				Flags:  []cli.Flag{requiredFlag("match", "match id")},
				Action: withContainer(func(c *cli.Context, container *app.Container) (any, error) {
					return container.Engine.ScoreMatch(c.Context, c.String("match"))
				}),
			},
			{
				Name:   "settle-round",
				Usage:  "run the full settlement pipeline for a completed round",
				Flags:  []cli.Flag{requiredFlag("round", "round id")},
				Action: withContainer(func(c *cli.Context, container *app.Container) (any, error) {
					return container.Engine.SettleRound(c.Context, c.String("round"))
				}),
			},
			{
				Name:   "recalculate-season",
				Usage:  "settle every round of a season in order",
				Flags:  []cli.Flag{requiredFlag("season", "season id")},
				Action: withContainer(func(c *cli.Context, container *app.Container) (any, error) {
					return container.Engine.RecalculateSeason(c.Context, c.String("season"))
				}),
			},
			{
				Name:   "report",
				Usage:  "print the prize settlement report of a league",
				Flags:  []cli.Flag{requiredFlag("league", "league id")},
				Action: withContainer(func(c *cli.Context, container *app.Container) (any, error) {
					return container.Reports.Report(c.Context, c.String("league"))
				}),
			},
			{
				Name:  "use-boost",
				Usage: "record a member's boost selection for a round",
				Flags: []cli.Flag{
					requiredFlag("league", "league id"),
					requiredFlag("round", "round id"),
					requiredFlag("user", "user id"),
					&cli.StringFlag{Name: "code", Usage: "boost code", Value: string(boost.CodeDoubleUp)},
				},
				Action: withContainer(func(c *cli.Context, container *app.Container) (any, error) {
					return container.Boosts.UseBoost(c.Context, usecase.BoostRequest{
						LeagueID: c.String("league"),
						RoundID:  c.String("round"),
						UserID:   c.String("user"),
						Code:     boost.Code(strings.TrimSpace(c.String("code"))),
					})
				}),
			},
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func requiredFlag(name, usage string) cli.Flag {
	return &cli.StringFlag{Name: name, Usage: usage, Required: true}
}

// withContainer loads config, wires the engine and prints the command result as JSON.
func withContainer(run func(*cli.Context, *app.Container) (any, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger := logging.NewJSON(cfg.LogLevel).With("component", "engine-cli", "command", c.Command.Name)
		logging.SetDefault(logger)
		defer func() { _ = logger.Sync() }()

		shutdownTracing, err := observability.InitUptrace(cfg, logger)
		if err != nil {
			return fmt.Errorf("init uptrace: %w", err)
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Warn("flush traces failed", "error", err)
			}
		}()

		container, err := app.NewContainer(c.Context, cfg, logger)
		if err != nil {
			return fmt.Errorf("build app container: %w", err)
		}
		defer func() {
			if err := container.Close(); err != nil {
				logger.Warn("close app container failed", "error", err)
			}
		}()

		out, err := run(c, container)
		if err != nil {
			logger.ErrorContext(c.Context, "command failed", "error", err)
			return err
		}

		payload, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = fmt.Fprintln(c.App.Writer, string(payload))
		return err
	}
}
