package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/urfave/cli/v2"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

var defaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

func main() {
	logger := logging.NewJSON(logging.ParseLevel(os.Getenv("APP_LOG_LEVEL"))).With("component", "migration")
	defer func() { _ = logger.Sync() }()

	cliApp := &cli.App{
		Name:  "migration",
		Usage: "apply prediction league schema migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db-url", EnvVars: []string{"DB_URL"}, Usage: "postgres connection url", Required: true},
			&cli.StringFlag{Name: "dir", EnvVars: []string{"MIGRATIONS_DIR", "MIGRATIONS_PATH"}, Usage: "migrations directory"},
			&cli.BoolFlag{Name: "disable-prepared-binary", EnvVars: []string{"DB_DISABLE_PREPARED_BINARY_RESULT"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply every pending migration",
				Action: withMigrator(logger, func(_ *cli.Context, m *migrate.Migrate) error {
					if err := ignoreNoChange(logger, m.Up()); err != nil {
						return err
					}
					logger.Info("migrations applied")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "roll back N migrations (default 1)",
				Flags: []cli.Flag{&cli.IntFlag{Name: "steps", Value: 1}},
				Action: withMigrator(logger, func(c *cli.Context, m *migrate.Migrate) error {
					steps := c.Int("steps")
					if steps <= 0 {
						return fmt.Errorf("down steps must be > 0")
					}
					if err := ignoreNoChange(logger, m.Steps(-steps)); err != nil {
						return err
					}
					logger.Info("migrations rolled back", "steps", steps)
					return nil
				}),
			},
			{
				Name:  "version",
				Usage: "print the applied schema version",
				Action: withMigrator(logger, func(c *cli.Context, m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						_, err = fmt.Fprintln(c.App.Writer, "version: none\ndirty: false")
						return err
					}
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					_, err = fmt.Fprintf(c.App.Writer, "version: %d\ndirty: %t\n", version, dirty)
					return err
				}),
			},
			{
				Name:  "force",
				Usage: "set the schema version without running migrations",
				Flags: []cli.Flag{&cli.IntFlag{Name: "version", Required: true}},
				Action: withMigrator(logger, func(c *cli.Context, m *migrate.Migrate) error {
					version := c.Int("version")
					if version < 0 {
						return fmt.Errorf("version must be >= 0")
					}
					if err := m.Force(version); err != nil {
						return fmt.Errorf("force version %d: %w", version, err)
					}
					logger.Info("schema version forced", "version", version)
					return nil
				}),
			},
			{
				Name:  "goto",
				Usage: "migrate up or down to a target version",
				Flags: []cli.Flag{&cli.UintFlag{Name: "version", Required: true}},
				Action: withMigrator(logger, func(c *cli.Context, m *migrate.Migrate) error {
					target := c.Uint("version")
					if err := ignoreNoChange(logger, m.Migrate(target)); err != nil {
						return err
					}
					logger.Info("migrated to version", "version", target)
					return nil
				}),
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func withMigrator(logger *logging.Logger, run func(*cli.Context, *migrate.Migrate) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		dir, err := resolveMigrationsDir(c.String("dir"))
		if err != nil {
			return err
		}

		sourceURL := "file://" + filepath.ToSlash(dir)
		m, err := migrate.New(sourceURL, normalizeDBURL(c.String("db-url"), c.Bool("disable-prepared-binary")))
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
		defer func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				logger.Warn("close migration source failed", "error", srcErr)
			}
			if dbErr != nil {
				logger.Warn("close migration db failed", "error", dbErr)
			}
		}()

		logger.Info("migration source resolved", "source", sourceURL, "command", c.Command.Name)
		return run(c, m)
	}
}

func ignoreNoChange(logger *logging.Logger, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := append([]string{strings.TrimSpace(explicit)}, defaultMigrationDirs...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked --dir, %s)", strings.Join(defaultMigrationDirs, ", "))
}

func normalizeDBURL(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}
