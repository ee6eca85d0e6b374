package ranking

import "time"

// MemberStats holds the three rank views of one league member.
// Snapshot ranks are frozen at round start; live ranks follow every scored match;
// stable round figures only count matches in a terminal state.
type MemberStats struct {
	LeagueID            string
	UserID              string
	OverallPoints       int
	MonthPoints         int
	OverallRank         int
	MonthRank           int
	LiveRoundRank       int
	StableRoundRank     int
	LiveRoundPoints     int
	StableRoundPoints   int
	SnapshotOverallRank int
	SnapshotMonthRank   int
	SnapshotRoundID     string
	UpdatedAt           time.Time
}
