package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type BoostRepository struct {
	db *sqlx.DB
}

func NewBoostRepository(db *sqlx.DB) *BoostRepository {
	return &BoostRepository{db: db}
}

func (r *BoostRepository) GetRule(ctx context.Context, leagueID string, code boost.Code) (boost.Rule, bool, error) {
	query, args, err := qb.Select("*").From("boost_window_rules").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("boost_code", string(code)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return boost.Rule{}, false, fmt.Errorf("build get boost rule query: %w", err)
	}

	var row boostRuleTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return boost.Rule{}, false, nil
		}
		return boost.Rule{}, false, fmt.Errorf("get boost rule: %w", err)
	}

	rule, err := boostRuleFromRow(row)
	if err != nil {
		return boost.Rule{}, false, fmt.Errorf("decode boost windows league=%s code=%s: %w", leagueID, code, err)
	}
	return rule, true, nil
}

func (r *BoostRepository) ListRules(ctx context.Context, leagueID string) ([]boost.Rule, error) {
	query, args, err := qb.Select("*").From("boost_window_rules").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("boost_code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list boost rules query: %w", err)
	}

	var rows []boostRuleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select boost rules: %w", err)
	}

	out := make([]boost.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := boostRuleFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode boost windows league=%s code=%s: %w", leagueID, row.BoostCode, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

func (r *BoostRepository) GetUsage(ctx context.Context, leagueID, roundID, userID string) (boost.Usage, bool, error) {
	query, args, err := qb.Select("*").From("user_boost_usages").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("round_public_id", roundID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return boost.Usage{}, false, fmt.Errorf("build get boost usage query: %w", err)
	}

	var row boostUsageTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return boost.Usage{}, false, nil
		}
		return boost.Usage{}, false, fmt.Errorf("get boost usage: %w", err)
	}
	return boostUsageFromRow(row), true, nil
}

func (r *BoostRepository) ListUsagesByRound(ctx context.Context, leagueID, roundID string) ([]boost.Usage, error) {
	return r.listUsages(ctx, "list boost usages by round",
		qb.Eq("league_public_id", leagueID),
		qb.Eq("round_public_id", roundID),
	)
}

func (r *BoostRepository) ListUsagesByUser(ctx context.Context, leagueID, userID string) ([]boost.Usage, error) {
	return r.listUsages(ctx, "list boost usages by user",
		qb.Eq("league_public_id", leagueID),
		qb.Eq("user_id", userID),
	)
}

func (r *BoostRepository) listUsages(ctx context.Context, op string, conds ...qb.Condition) ([]boost.Usage, error) {
	query, args, err := qb.Select("*").From("user_boost_usages").
		Where(conds...).
		OrderBy("round_number", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []boostUsageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]boost.Usage, 0, len(rows))
	for _, row := range rows {
		out = append(out, boostUsageFromRow(row))
	}
	return out, nil
}

func (r *BoostRepository) CreateUsage(ctx context.Context, usage boost.Usage) error {
	insertModel := boostUsageInsertModel{
		LeagueID:    usage.LeagueID,
		RoundID:     usage.RoundID,
		RoundNumber: usage.RoundNumber,
		UserID:      usage.UserID,
		BoostCode:   string(usage.Code),
		UsedAt:      usage.UsedAt.UTC(),
	}
	query, args, err := qb.InsertModel("user_boost_usages", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert boost usage query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: league=%s round=%s user=%s", boost.ErrUsageExists, usage.LeagueID, usage.RoundID, usage.UserID)
		}
		return fmt.Errorf("insert boost usage: %w", err)
	}
	return nil
}
