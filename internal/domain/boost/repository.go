package boost

import (
	"context"
	"errors"
)

// ErrUsageExists is returned when a (league, round, user) already holds a usage row.
var ErrUsageExists = errors.New("boost usage already recorded for round")

type Repository interface {
	GetRule(ctx context.Context, leagueID string, code Code) (Rule, bool, error)
	ListRules(ctx context.Context, leagueID string) ([]Rule, error)

	GetUsage(ctx context.Context, leagueID, roundID, userID string) (Usage, bool, error)
	ListUsagesByRound(ctx context.Context, leagueID, roundID string) ([]Usage, error)
	ListUsagesByUser(ctx context.Context, leagueID, userID string) ([]Usage, error)
	// CreateUsage must fail with ErrUsageExists on a duplicate (league, round, user).
	CreateUsage(ctx context.Context, usage Usage) error
}
