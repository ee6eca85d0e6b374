package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// live reports whether e is still servable at now; a zero expiresAt never expires.
func (e entry) live(now time.Time) bool {
	return e.expiresAt.IsZero() || e.expiresAt.After(now)
}

// Store is a process-local TTL cache for read-mostly configuration such as leagues,
// prize settings and boost rules. A zero ttl keeps entries for the process lifetime.
//
// Expired entries are dropped lazily on Get and swept whenever the map doubles
// past the size it had after the previous sweep.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	sweepAt int
	ttl     time.Duration
	flight  resilience.SingleFlight[any]
	now     func() time.Time
}

const minSweepSize = 64

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		sweepAt: minSweepSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && e.live(now) {
		return e.value, true
	}
	if ok {
		s.mu.Lock()
		if cur, still := s.entries[key]; still && !cur.live(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
	}
	return nil, false
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	now := s.now()
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = e
	if s.ttl > 0 && len(s.entries) >= s.sweepAt {
		for k, v := range s.entries {
			if !v.live(now) {
				delete(s.entries, k)
			}
		}
		s.sweepAt = max(2*len(s.entries), minSweepSize)
	}
}

// Len counts stored entries, including expired ones not yet swept.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Load is the typed form of GetOrLoad. A cached value of another type under key is an error.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := s.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache key=%s holds %T, want %T", key, value, zero)
	}
	return typed, nil
}
