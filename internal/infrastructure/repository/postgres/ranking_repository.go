package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type RankingRepository struct {
	db *sqlx.DB
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

func (r *RankingRepository) ListMemberStats(ctx context.Context, leagueID string) ([]ranking.MemberStats, error) {
	query, args, err := qb.Select("*").From("league_member_stats").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("overall_rank", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select member stats query: %w", err)
	}

	var rows []memberStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select member stats: %w", err)
	}

	out := make([]ranking.MemberStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.MemberStats{
			LeagueID:            row.LeagueID,
			UserID:              row.UserID,
			OverallPoints:       row.OverallPoints,
			MonthPoints:         row.MonthPoints,
			OverallRank:         row.OverallRank,
			MonthRank:           row.MonthRank,
			LiveRoundRank:       row.LiveRoundRank,
			StableRoundRank:     row.StableRoundRank,
			LiveRoundPoints:     row.LiveRoundPoints,
			StableRoundPoints:   row.StableRoundPoints,
			SnapshotOverallRank: row.SnapshotOverallRank,
			SnapshotMonthRank:   row.SnapshotMonthRank,
			SnapshotRoundID:     row.SnapshotRoundID,
			UpdatedAt:           row.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *RankingRepository) ReplaceMemberStats(ctx context.Context, leagueID string, stats []ranking.MemberStats) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace member stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	users := make([]string, 0, len(stats))
	models := make([]any, 0, len(stats))
	for _, s := range stats {
		users = append(users, s.UserID)
		models = append(models, memberStatsInsertModel{
			LeagueID:            leagueID,
			UserID:              s.UserID,
			OverallPoints:       s.OverallPoints,
			MonthPoints:         s.MonthPoints,
			OverallRank:         s.OverallRank,
			MonthRank:           s.MonthRank,
			LiveRoundRank:       s.LiveRoundRank,
			StableRoundRank:     s.StableRoundRank,
			LiveRoundPoints:     s.LiveRoundPoints,
			StableRoundPoints:   s.StableRoundPoints,
			SnapshotOverallRank: s.SnapshotOverallRank,
			SnapshotMonthRank:   s.SnapshotMonthRank,
			SnapshotRoundID:     s.SnapshotRoundID,
			UpdatedAt:           s.UpdatedAt.UTC(),
		})
	}
	if err := insertBatches(ctx, tx, "league_member_stats", models, `ON CONFLICT (league_public_id, user_id)
DO UPDATE SET
    overall_points = EXCLUDED.overall_points,
    month_points = EXCLUDED.month_points,
    overall_rank = EXCLUDED.overall_rank,
    month_rank = EXCLUDED.month_rank,
    live_round_rank = EXCLUDED.live_round_rank,
    stable_round_rank = EXCLUDED.stable_round_rank,
    live_round_points = EXCLUDED.live_round_points,
    stable_round_points = EXCLUDED.stable_round_points,
    snapshot_overall_rank = EXCLUDED.snapshot_overall_rank,
    snapshot_month_rank = EXCLUDED.snapshot_month_rank,
    snapshot_round_public_id = EXCLUDED.snapshot_round_public_id,
    updated_at = EXCLUDED.updated_at`); err != nil {
		return fmt.Errorf("upsert member stats: %w", err)
	}

	clearQuery, clearArgs, err := qb.DeleteFrom("league_member_stats").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Expr("NOT (user_id = ANY(?))", pq.Array(users)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear stale member stats query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear stale member stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace member stats tx: %w", err)
	}
	return nil
}
