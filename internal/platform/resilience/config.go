package resilience

import (
	"fmt"
	"time"
)

// CircuitBreakerConfig is the env-facing shape of a breaker. The zero value is disabled.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// NormalizeCircuitBreakerConfig fills unset or out-of-range limits from the defaults.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// Validate reports the first limit that would be silently replaced by Normalize.
// name prefixes the message, e.g. QSTASH_CIRCUIT.
func (c CircuitBreakerConfig) Validate(name string) error {
	switch {
	case c.FailureThreshold < 1:
		return fmt.Errorf("%s_FAILURE_COUNT must be >= 1", name)
	case c.OpenTimeout <= 0:
		return fmt.Errorf("%s_OPEN_TIMEOUT must be > 0", name)
	case c.HalfOpenMaxReq < 1:
		return fmt.Errorf("%s_HALF_OPEN_MAX_REQ must be >= 1", name)
	}
	return nil
}

// Build returns nil when the breaker is disabled; callers treat a nil breaker as pass-through.
func (c CircuitBreakerConfig) Build() *CircuitBreaker {
	if !c.Enabled {
		return nil
	}
	c = NormalizeCircuitBreakerConfig(c)
	return NewCircuitBreaker(c.FailureThreshold, c.OpenTimeout, c.HalfOpenMaxReq)
}
