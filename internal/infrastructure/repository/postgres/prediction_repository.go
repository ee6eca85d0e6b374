package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	return r.ListByMatches(ctx, []string{matchID})
}

func (r *PredictionRepository) ListByMatches(ctx context.Context, matchIDs []string) ([]prediction.Prediction, error) {
	if len(matchIDs) == 0 {
		return []prediction.Prediction{}, nil
	}

	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Any("match_public_id", pq.Array(matchIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("match_public_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Prediction{
			ID:            row.PublicID,
			MatchID:       row.MatchID,
			UserID:        row.UserID,
			PredictedHome: row.PredictedHome,
			PredictedAway: row.PredictedAway,
			Outcome:       prediction.Outcome(row.Outcome),
			UpdatedAt:     row.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *PredictionRepository) UpdateOutcomes(ctx context.Context, updates []prediction.OutcomeUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update prediction outcomes: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, update := range updates {
		query, args, err := qb.Update("predictions").
			Set("outcome", string(update.Outcome)).
			Set("updated_at", update.UpdatedAt.UTC()).
			Where(
				qb.Eq("public_id", update.PredictionID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update prediction outcome query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update prediction outcome id=%s: %w", update.PredictionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update prediction outcomes tx: %w", err)
	}
	return nil
}
