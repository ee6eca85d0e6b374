package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)
	errMissing := errors.New("missing")
	errDown := errors.New("down")

	if err := b.Execute(func() error { return errMissing }, func(err error) bool { return errors.Is(err, errMissing) }); !errors.Is(err, errMissing) {
		t.Fatalf("expected ignored error to pass through, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("ignored errors must not trip the breaker, got %s", state)
	}

	if err := b.Execute(func() error { return errDown }, nil); !errors.Is(err, errDown) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	}, nil)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected open breaker to short-circuit, err=%v called=%t", err, called)
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	b := NewCircuitBreaker(1, time.Second, 2)
	now := time.Date(2026, 3, 7, 21, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	var transitions []string
	b.OnStateChange(func(from, to CircuitState) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	b.RecordFailure()
	now = now.Add(2 * time.Second)
	for i := 0; i < 2; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("probe %d rejected: %v", i+1, err)
		}
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected probe limit to reject, got %v", err)
	}
	b.RecordSuccess()
	b.RecordSuccess()

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions=%v want=%v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions=%v want=%v", transitions, want)
		}
	}
}

func TestCircuitBreaker_NilAdmitsEverything(t *testing.T) {
	var b *CircuitBreaker
	calls := 0
	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { calls++; return errors.New("down") }, nil); err == nil || errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("nil breaker must pass the call error through, got %v", err)
		}
	}
	if calls != 3 || b.State() != CircuitStateClosed {
		t.Fatalf("calls=%d state=%s", calls, b.State())
	}
}
