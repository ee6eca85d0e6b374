package postgres

import (
	"database/sql"
	"time"
)

type seasonTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	StartDate time.Time  `db:"start_date"`
	EndDate   time.Time  `db:"end_date"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type roundTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	SeasonID    string     `db:"season_public_id"`
	RoundNumber int        `db:"round_number"`
	Status      string     `db:"status"`
	DeadlineAt  time.Time  `db:"deadline_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type matchTableModel struct {
	ID        int64         `db:"id"`
	PublicID  string        `db:"public_id"`
	RoundID   string        `db:"round_public_id"`
	HomeTeam  string        `db:"home_team"`
	AwayTeam  string        `db:"away_team"`
	KickoffAt time.Time     `db:"kickoff_at"`
	Status    string        `db:"status"`
	HomeScore sql.NullInt64 `db:"home_score"`
	AwayScore sql.NullInt64 `db:"away_score"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at"`
}

type predictionTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	MatchID       string     `db:"match_public_id"`
	UserID        string     `db:"user_id"`
	PredictedHome int        `db:"predicted_home"`
	PredictedAway int        `db:"predicted_away"`
	Outcome       string     `db:"outcome"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}
