package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) ListRoundResults(ctx context.Context, roundID string) ([]result.RoundResult, error) {
	query, args, err := qb.Select("*").From("round_results").
		Where(qb.Eq("round_public_id", roundID)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select round results query: %w", err)
	}

	var rows []roundResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select round results: %w", err)
	}

	out := make([]result.RoundResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, result.RoundResult{
			RoundID:            row.RoundID,
			UserID:             row.UserID,
			ExactScoreCount:    row.ExactScoreCount,
			CorrectResultCount: row.CorrectResultCount,
			IncorrectCount:     row.IncorrectCount,
			CalculatedAt:       row.CalculatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *ResultRepository) ReplaceRoundResults(ctx context.Context, roundID string, rows []result.RoundResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace round results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	users := make([]string, 0, len(rows))
	models := make([]any, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.UserID)
		models = append(models, roundResultInsertModel{
			RoundID:            roundID,
			UserID:             row.UserID,
			ExactScoreCount:    row.ExactScoreCount,
			CorrectResultCount: row.CorrectResultCount,
			IncorrectCount:     row.IncorrectCount,
			CalculatedAt:       row.CalculatedAt.UTC(),
		})
	}
	if err := insertBatches(ctx, tx, "round_results", models, `ON CONFLICT (round_public_id, user_id)
DO UPDATE SET
    exact_score_count = EXCLUDED.exact_score_count,
    correct_result_count = EXCLUDED.correct_result_count,
    incorrect_count = EXCLUDED.incorrect_count,
    calculated_at = EXCLUDED.calculated_at`); err != nil {
		return fmt.Errorf("upsert round results: %w", err)
	}

	clearQuery, clearArgs, err := qb.DeleteFrom("round_results").
		Where(
			qb.Eq("round_public_id", roundID),
			qb.Expr("NOT (user_id = ANY(?))", pq.Array(users)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear stale round results query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear stale round results: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace round results tx: %w", err)
	}
	return nil
}

func (r *ResultRepository) ListLeagueRoundResults(ctx context.Context, leagueID string, roundIDs []string) ([]result.LeagueRoundResult, error) {
	if len(roundIDs) == 0 {
		return []result.LeagueRoundResult{}, nil
	}

	query, args, err := qb.Select("*").From("league_round_results").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Any("round_public_id", pq.Array(roundIDs)),
		).
		OrderBy("round_public_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select league round results query: %w", err)
	}

	var rows []leagueRoundResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select league round results: %w", err)
	}

	out := make([]result.LeagueRoundResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, result.LeagueRoundResult{
			LeagueID:         row.LeagueID,
			RoundID:          row.RoundID,
			UserID:           row.UserID,
			BasePoints:       row.BasePoints,
			BoostedPoints:    row.BoostedPoints,
			HasBoost:         row.HasBoost,
			AppliedBoostCode: row.AppliedBoostCode,
			ExactScoreCount:  row.ExactScoreCount,
			CalculatedAt:     row.CalculatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *ResultRepository) ReplaceLeagueRoundResults(ctx context.Context, leagueID, roundID string, rows []result.LeagueRoundResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace league round results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	users := make([]string, 0, len(rows))
	models := make([]any, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.UserID)
		models = append(models, leagueRoundResultInsertModel{
			LeagueID:         leagueID,
			RoundID:          roundID,
			UserID:           row.UserID,
			BasePoints:       row.BasePoints,
			BoostedPoints:    row.BoostedPoints,
			HasBoost:         row.HasBoost,
			AppliedBoostCode: row.AppliedBoostCode,
			ExactScoreCount:  row.ExactScoreCount,
			CalculatedAt:     row.CalculatedAt.UTC(),
		})
	}
	if err := insertBatches(ctx, tx, "league_round_results", models, `ON CONFLICT (league_public_id, round_public_id, user_id)
DO UPDATE SET
    base_points = EXCLUDED.base_points,
    boosted_points = EXCLUDED.boosted_points,
    has_boost = EXCLUDED.has_boost,
    applied_boost_code = EXCLUDED.applied_boost_code,
    exact_score_count = EXCLUDED.exact_score_count,
    calculated_at = EXCLUDED.calculated_at`); err != nil {
		return fmt.Errorf("upsert league round results: %w", err)
	}

	clearQuery, clearArgs, err := qb.DeleteFrom("league_round_results").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("round_public_id", roundID),
			qb.Expr("NOT (user_id = ANY(?))", pq.Array(users)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear stale league round results query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear stale league round results: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace league round results tx: %w", err)
	}
	return nil
}
