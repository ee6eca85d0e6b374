package postgres

import (
	"database/sql"
	"time"
)

type leagueTableModel struct {
	ID                  int64        `db:"id"`
	PublicID            string       `db:"public_id"`
	SeasonID            string       `db:"season_public_id"`
	Name                string       `db:"name"`
	PointsExactScore    int          `db:"points_exact_score"`
	PointsCorrectResult int          `db:"points_correct_result"`
	EntryCost           int64        `db:"entry_cost"`
	EntryDeadlineAt     sql.NullTime `db:"entry_deadline_at"`
	CreatedAt           time.Time    `db:"created_at"`
	UpdatedAt           time.Time    `db:"updated_at"`
	DeletedAt           *time.Time   `db:"deleted_at"`
}

type leagueMemberTableModel struct {
	ID          int64      `db:"id"`
	LeagueID    string     `db:"league_public_id"`
	UserID      string     `db:"user_id"`
	DisplayName string     `db:"display_name"`
	Status      string     `db:"status"`
	JoinedAt    time.Time  `db:"joined_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type prizeSettingTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	LeagueID  string     `db:"league_public_id"`
	PrizeType string     `db:"prize_type"`
	PrizeRank int        `db:"prize_rank"`
	Amount    int64      `db:"amount"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type winningTableModel struct {
	ID             int64         `db:"id"`
	PublicID       string        `db:"public_id"`
	LeagueID       string        `db:"league_public_id"`
	UserID         string        `db:"user_id"`
	PrizeSettingID string        `db:"prize_setting_public_id"`
	PrizeType      string        `db:"prize_type"`
	Amount         int64         `db:"amount"`
	RoundNumber    sql.NullInt64 `db:"round_number"`
	Year           sql.NullInt64 `db:"year"`
	Month          sql.NullInt64 `db:"month"`
	AwardedAt      time.Time     `db:"awarded_at"`
}

type winningInsertModel struct {
	PublicID       string        `db:"public_id"`
	LeagueID       string        `db:"league_public_id"`
	UserID         string        `db:"user_id"`
	PrizeSettingID string        `db:"prize_setting_public_id"`
	PrizeType      string        `db:"prize_type"`
	Amount         int64         `db:"amount"`
	RoundNumber    sql.NullInt64 `db:"round_number"`
	Year           sql.NullInt64 `db:"year"`
	Month          sql.NullInt64 `db:"month"`
	AwardedAt      time.Time     `db:"awarded_at"`
}
