package round

import "context"

// Repository is the read-only match/round provider.
type Repository interface {
	GetSeason(ctx context.Context, seasonID string) (Season, bool, error)
	GetRound(ctx context.Context, roundID string) (Round, bool, error)
	ListRoundsBySeason(ctx context.Context, seasonID string) ([]Round, error)
	GetMatch(ctx context.Context, matchID string) (Match, bool, error)
	ListMatchesByRound(ctx context.Context, roundID string) ([]Match, error)
}
