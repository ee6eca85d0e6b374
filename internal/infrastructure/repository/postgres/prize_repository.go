package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/prize"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type PrizeRepository struct {
	db *sqlx.DB
}

func NewPrizeRepository(db *sqlx.DB) *PrizeRepository {
	return &PrizeRepository{db: db}
}

func (r *PrizeRepository) ListSettings(ctx context.Context, leagueID string) ([]prize.Setting, error) {
	query, args, err := qb.Select("*").From("league_prize_settings").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("prize_type", "prize_rank").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select prize settings query: %w", err)
	}

	var rows []prizeSettingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select prize settings: %w", err)
	}

	out := make([]prize.Setting, 0, len(rows))
	for _, row := range rows {
		prizeType, err := prize.ParseType(row.PrizeType)
		if err != nil {
			return nil, fmt.Errorf("prize setting id=%s: %w", row.PublicID, err)
		}
		out = append(out, prize.Setting{
			ID:       row.PublicID,
			LeagueID: row.LeagueID,
			Type:     prizeType,
			Rank:     row.PrizeRank,
			Amount:   row.Amount,
		})
	}
	return out, nil
}

func (r *PrizeRepository) ListWinnings(ctx context.Context, leagueID string) ([]prize.Winning, error) {
	query, args, err := qb.Select("*").From("winnings").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("awarded_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select winnings query: %w", err)
	}

	var rows []winningTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select winnings: %w", err)
	}

	out := make([]prize.Winning, 0, len(rows))
	for _, row := range rows {
		out = append(out, prize.Winning{
			ID:          row.PublicID,
			LeagueID:    row.LeagueID,
			UserID:      row.UserID,
			SettingID:   row.PrizeSettingID,
			Type:        prize.Type(row.PrizeType),
			Amount:      row.Amount,
			RoundNumber: nullInt64ToIntPtr(row.RoundNumber),
			Year:        nullInt64ToIntPtr(row.Year),
			Month:       nullInt64ToIntPtr(row.Month),
			AwardedAt:   row.AwardedAt.UTC(),
		})
	}
	return out, nil
}

func (r *PrizeRepository) ReplaceWinnings(ctx context.Context, leagueID string, period prize.Period, rows []prize.Winning) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace winnings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("winnings").
		Where(periodConditions(leagueID, period)...).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete winnings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete winnings period=%s: %w", period, err)
	}

	models := make([]any, 0, len(rows))
	for _, w := range rows {
		models = append(models, winningInsertModel{
			PublicID:       w.ID,
			LeagueID:       leagueID,
			UserID:         w.UserID,
			PrizeSettingID: w.SettingID,
			PrizeType:      string(w.Type),
			Amount:         w.Amount,
			RoundNumber:    intPtrToNullInt64(w.RoundNumber),
			Year:           intPtrToNullInt64(w.Year),
			Month:          intPtrToNullInt64(w.Month),
			AwardedAt:      w.AwardedAt.UTC(),
		})
	}
	if err := insertBatches(ctx, tx, "winnings", models, ""); err != nil {
		return fmt.Errorf("insert winnings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace winnings tx: %w", err)
	}
	return nil
}

func periodConditions(leagueID string, period prize.Period) []qb.Condition {
	conds := []qb.Condition{
		qb.Eq("league_public_id", leagueID),
		qb.Eq("prize_type", string(period.Type)),
	}
	switch period.Type {
	case prize.TypeRound:
		conds = append(conds, qb.Eq("round_number", period.RoundNumber))
	case prize.TypeMonthly:
		conds = append(conds, qb.Eq("year", period.Year), qb.Eq("month", period.Month))
	}
	return conds
}
