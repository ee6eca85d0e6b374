package postgres

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
)

type boostRuleTableModel struct {
	ID                 int64      `db:"id"`
	LeagueID           string     `db:"league_public_id"`
	BoostCode          string     `db:"boost_code"`
	IsEnabled          bool       `db:"is_enabled"`
	TotalUsesPerSeason int        `db:"total_uses_per_season"`
	Windows            []byte     `db:"windows"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	DeletedAt          *time.Time `db:"deleted_at"`
}

type boostUsageTableModel struct {
	ID          int64     `db:"id"`
	LeagueID    string    `db:"league_public_id"`
	RoundID     string    `db:"round_public_id"`
	RoundNumber int       `db:"round_number"`
	UserID      string    `db:"user_id"`
	BoostCode   string    `db:"boost_code"`
	UsedAt      time.Time `db:"used_at"`
	CreatedAt   time.Time `db:"created_at"`
}

type boostUsageInsertModel struct {
	LeagueID    string    `db:"league_public_id"`
	RoundID     string    `db:"round_public_id"`
	RoundNumber int       `db:"round_number"`
	UserID      string    `db:"user_id"`
	BoostCode   string    `db:"boost_code"`
	UsedAt      time.Time `db:"used_at"`
}

func decodeWindows(raw []byte) ([]boost.Window, error) {
	if len(raw) == 0 {
		return []boost.Window{}, nil
	}
	var windows []boost.Window
	if err := sonic.Unmarshal(raw, &windows); err != nil {
		return nil, err
	}
	if windows == nil {
		windows = []boost.Window{}
	}
	return windows, nil
}

func encodeWindows(windows []boost.Window) ([]byte, error) {
	if windows == nil {
		windows = []boost.Window{}
	}
	return sonic.Marshal(windows)
}

func boostRuleFromRow(row boostRuleTableModel) (boost.Rule, error) {
	windows, err := decodeWindows(row.Windows)
	if err != nil {
		return boost.Rule{}, err
	}
	return boost.Rule{
		LeagueID:           row.LeagueID,
		Code:               boost.Code(row.BoostCode),
		IsEnabled:          row.IsEnabled,
		TotalUsesPerSeason: row.TotalUsesPerSeason,
		Windows:            windows,
	}, nil
}

func boostUsageFromRow(row boostUsageTableModel) boost.Usage {
	return boost.Usage{
		LeagueID:    row.LeagueID,
		RoundID:     row.RoundID,
		RoundNumber: row.RoundNumber,
		UserID:      row.UserID,
		Code:        boost.Code(row.BoostCode),
		UsedAt:      row.UsedAt.UTC(),
	}
}
