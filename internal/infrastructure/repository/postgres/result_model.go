package postgres

import "time"

type roundResultTableModel struct {
	ID                 int64     `db:"id"`
	RoundID            string    `db:"round_public_id"`
	UserID             string    `db:"user_id"`
	ExactScoreCount    int       `db:"exact_score_count"`
	CorrectResultCount int       `db:"correct_result_count"`
	IncorrectCount     int       `db:"incorrect_count"`
	CalculatedAt       time.Time `db:"calculated_at"`
}

type roundResultInsertModel struct {
	RoundID            string    `db:"round_public_id"`
	UserID             string    `db:"user_id"`
	ExactScoreCount    int       `db:"exact_score_count"`
	CorrectResultCount int       `db:"correct_result_count"`
	IncorrectCount     int       `db:"incorrect_count"`
	CalculatedAt       time.Time `db:"calculated_at"`
}

type leagueRoundResultTableModel struct {
	ID               int64     `db:"id"`
	LeagueID         string    `db:"league_public_id"`
	RoundID          string    `db:"round_public_id"`
	UserID           string    `db:"user_id"`
	BasePoints       int       `db:"base_points"`
	BoostedPoints    int       `db:"boosted_points"`
	HasBoost         bool      `db:"has_boost"`
	AppliedBoostCode string    `db:"applied_boost_code"`
	ExactScoreCount  int       `db:"exact_score_count"`
	CalculatedAt     time.Time `db:"calculated_at"`
}

type leagueRoundResultInsertModel struct {
	LeagueID         string    `db:"league_public_id"`
	RoundID          string    `db:"round_public_id"`
	UserID           string    `db:"user_id"`
	BasePoints       int       `db:"base_points"`
	BoostedPoints    int       `db:"boosted_points"`
	HasBoost         bool      `db:"has_boost"`
	AppliedBoostCode string    `db:"applied_boost_code"`
	ExactScoreCount  int       `db:"exact_score_count"`
	CalculatedAt     time.Time `db:"calculated_at"`
}

type memberStatsTableModel struct {
	ID                  int64     `db:"id"`
	LeagueID            string    `db:"league_public_id"`
	UserID              string    `db:"user_id"`
	OverallPoints       int       `db:"overall_points"`
	MonthPoints         int       `db:"month_points"`
	OverallRank         int       `db:"overall_rank"`
	MonthRank           int       `db:"month_rank"`
	LiveRoundRank       int       `db:"live_round_rank"`
	StableRoundRank     int       `db:"stable_round_rank"`
	LiveRoundPoints     int       `db:"live_round_points"`
	StableRoundPoints   int       `db:"stable_round_points"`
	SnapshotOverallRank int       `db:"snapshot_overall_rank"`
	SnapshotMonthRank   int       `db:"snapshot_month_rank"`
	SnapshotRoundID     string    `db:"snapshot_round_public_id"`
	UpdatedAt           time.Time `db:"updated_at"`
}

type memberStatsInsertModel struct {
	LeagueID            string    `db:"league_public_id"`
	UserID              string    `db:"user_id"`
	OverallPoints       int       `db:"overall_points"`
	MonthPoints         int       `db:"month_points"`
	OverallRank         int       `db:"overall_rank"`
	MonthRank           int       `db:"month_rank"`
	LiveRoundRank       int       `db:"live_round_rank"`
	StableRoundRank     int       `db:"stable_round_rank"`
	LiveRoundPoints     int       `db:"live_round_points"`
	StableRoundPoints   int       `db:"stable_round_points"`
	SnapshotOverallRank int       `db:"snapshot_overall_rank"`
	SnapshotMonthRank   int       `db:"snapshot_month_rank"`
	SnapshotRoundID     string    `db:"snapshot_round_public_id"`
	UpdatedAt           time.Time `db:"updated_at"`
}
