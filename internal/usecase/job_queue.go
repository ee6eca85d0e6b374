package usecase

import (
	"context"
	"errors"
	"regexp"
	"time"
)

const settleRoundJobPath = "/v1/internal/jobs/settle-round"

// JobQueue delivers an internal job request to the engine's own HTTP surface.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// ErrJobQueueDisabled is returned by the queue used when QStash is not configured.
var ErrJobQueueDisabled = errors.New("job queue disabled")

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return ErrJobQueueDisabled
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func settleRoundDedupID(roundID string) string {
	return "settle-round-" + dedupUnsafeCharRegex.ReplaceAllString(roundID, "-")
}
