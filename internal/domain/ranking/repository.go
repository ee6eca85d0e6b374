package ranking

import "context"

type Repository interface {
	ListMemberStats(ctx context.Context, leagueID string) ([]MemberStats, error)
	// ReplaceMemberStats writes the full member set of a league as one batch.
	ReplaceMemberStats(ctx context.Context, leagueID string, stats []MemberStats) error
}
