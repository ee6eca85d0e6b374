package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// Runtime owns the process-wide tracing, profiling and pprof hooks.
type Runtime struct {
	logger          *logging.Logger
	shutdownTracing func(context.Context) error
	stopProfiling   func() error
	pprof           *http.Server
}

// Start brings up every hook enabled in cfg. Hooks already started are torn down when a later one fails.
func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{
		logger:          logger,
		shutdownTracing: func(context.Context) error { return nil },
		stopProfiling:   func() error { return nil },
	}

	shutdownTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, err
	}
	rt.shutdownTracing = shutdownTracing

	stopProfiling, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, err
	}
	rt.stopProfiling = stopProfiling

	pprofServer, err := StartPprofServer(cfg, logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, err
	}
	rt.pprof = pprofServer

	return rt, nil
}

// Shutdown stops pprof first and flushes traces last so spans from the drain are exported.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	if err := StopPprofServer(ctx, r.pprof, r.logger); err != nil {
		errs = append(errs, err)
	}
	if err := r.stopProfiling(); err != nil {
		errs = append(errs, err)
	}
	if err := r.shutdownTracing(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
