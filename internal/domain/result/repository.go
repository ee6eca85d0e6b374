package result

import "context"

type Repository interface {
	ListRoundResults(ctx context.Context, roundID string) ([]RoundResult, error)
	// ReplaceRoundResults upserts rows and removes rows for users no longer present in the round.
	ReplaceRoundResults(ctx context.Context, roundID string, rows []RoundResult) error

	ListLeagueRoundResults(ctx context.Context, leagueID string, roundIDs []string) ([]LeagueRoundResult, error)
	// ReplaceLeagueRoundResults upserts rows for (league, round) and removes stale users.
	ReplaceLeagueRoundResults(ctx context.Context, leagueID, roundID string, rows []LeagueRoundResult) error
}
