package prize

import "context"

type Repository interface {
	ListSettings(ctx context.Context, leagueID string) ([]Setting, error)
	ListWinnings(ctx context.Context, leagueID string) ([]Winning, error)
	// ReplaceWinnings swaps the whole winning set of a period in one transaction.
	ReplaceWinnings(ctx context.Context, leagueID string, period Period, rows []Winning) error
}
