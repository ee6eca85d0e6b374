package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

func (s CircuitState) String() string { return string(s) }

// CircuitBreaker counts consecutive failures of one dependency. After failureThreshold
// it rejects calls for openTimeout, then admits up to halfOpenMaxReq probes; all probes
// succeeding closes it again and any probe failing reopens it.
//
// A nil *CircuitBreaker admits every call.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int

	state    CircuitState
	failures int
	openedAt time.Time
	probes   int
	passed   int

	now      func() time.Time
	onChange []func(from, to CircuitState)
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: max(failureThreshold, 1),
		openTimeout:      positiveOr(openTimeout, 15*time.Second),
		halfOpenMaxReq:   max(halfOpenMaxReq, 1),
		state:            CircuitStateClosed,
		now:              time.Now,
	}
}

func positiveOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// OnStateChange registers fn to run after every transition, outside the breaker lock.
func (b *CircuitBreaker) OnStateChange(fn func(from, to CircuitState)) {
	if b == nil || fn == nil {
		return
	}
	b.mu.Lock()
	b.onChange = append(b.onChange, fn)
	b.mu.Unlock()
}

func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	from := b.state
	err := b.admitLocked()
	b.unlockAndNotify(from)
	return err
}

func (b *CircuitBreaker) admitLocked() error {
	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.openTimeout {
			return ErrCircuitOpen
		}
		b.setLocked(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.probes >= b.halfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() { b.record(true) }

func (b *CircuitBreaker) RecordFailure() { b.record(false) }

func (b *CircuitBreaker) record(ok bool) {
	if b == nil {
		return
	}
	b.mu.Lock()
	from := b.state

	switch b.state {
	case CircuitStateClosed:
		if ok {
			b.failures = 0
		} else if b.failures++; b.failures >= b.failureThreshold {
			b.setLocked(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.probes = max(b.probes-1, 0)
		if !ok {
			b.setLocked(CircuitStateOpen)
			break
		}
		if b.passed++; b.passed >= b.halfOpenMaxReq && b.probes == 0 {
			b.setLocked(CircuitStateClosed)
		}
	case CircuitStateOpen:
		if !ok {
			b.openedAt = b.now()
		}
	}

	b.unlockAndNotify(from)
}

// Execute runs fn when the breaker admits it and records the outcome.
// Errors for which ignore returns true count as success, e.g. not-found lookups.
func (b *CircuitBreaker) Execute(fn func() error, ignore func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}
	err := fn()
	b.record(err == nil || (ignore != nil && ignore(err)))
	return err
}

// State reports half_open once the open timeout has elapsed, even before the next call.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) setLocked(to CircuitState) {
	b.state = to
	b.failures, b.probes, b.passed = 0, 0, 0
	b.openedAt = time.Time{}
	if to == CircuitStateOpen {
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) unlockAndNotify(from CircuitState) {
	to := b.state
	var hooks []func(from, to CircuitState)
	if from != to {
		hooks = append(hooks, b.onChange...)
	}
	b.mu.Unlock()

	for _, fn := range hooks {
		fn(from, to)
	}
}
