package league

import "context"

// Repository is the league configuration provider.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]League, error)
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
}
