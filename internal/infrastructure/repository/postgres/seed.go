package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo season into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := memory.DemoSeed()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(label, query string, arg map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, arg)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", label, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, s := range seed.Seasons {
		if err := exec("season "+s.ID, `
INSERT INTO seasons (public_id, name, start_date, end_date)
VALUES (:public_id, :name, :start_date, :end_date)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  s.ID,
			"name":       s.Name,
			"start_date": s.StartDate,
			"end_date":   s.EndDate,
		}); err != nil {
			return err
		}
	}

	for _, rd := range seed.Rounds {
		if err := exec("round "+rd.ID, `
INSERT INTO rounds (public_id, season_public_id, round_number, status, deadline_at)
VALUES (:public_id, :season_public_id, :round_number, :status, :deadline_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":        rd.ID,
			"season_public_id": rd.SeasonID,
			"round_number":     rd.Number,
			"status":           rd.Status,
			"deadline_at":      rd.DeadlineUTC,
		}); err != nil {
			return err
		}
	}

	for _, m := range seed.Matches {
		if err := exec("match "+m.ID, `
INSERT INTO matches (public_id, round_public_id, home_team, away_team, kickoff_at, status, home_score, away_score)
VALUES (:public_id, :round_public_id, :home_team, :away_team, :kickoff_at, :status, :home_score, :away_score)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":       m.ID,
			"round_public_id": m.RoundID,
			"home_team":       m.HomeTeam,
			"away_team":       m.AwayTeam,
			"kickoff_at":      m.KickoffAt,
			"status":          m.Status,
			"home_score":      intPtrToNullInt64(m.HomeScore),
			"away_score":      intPtrToNullInt64(m.AwayScore),
		}); err != nil {
			return err
		}
	}

	for _, l := range seed.Leagues {
		if err := exec("league "+l.ID, `
INSERT INTO leagues (public_id, season_public_id, name, points_exact_score, points_correct_result, entry_cost, entry_deadline_at)
VALUES (:public_id, :season_public_id, :name, :points_exact_score, :points_correct_result, :entry_cost, :entry_deadline_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":             l.ID,
			"season_public_id":      l.SeasonID,
			"name":                  l.Name,
			"points_exact_score":    l.PointsForExactScore,
			"points_correct_result": l.PointsForCorrectResult,
			"entry_cost":            l.EntryCost,
			"entry_deadline_at":     timeToNullTime(l.EntryDeadlineUTC),
		}); err != nil {
			return err
		}
	}

	for _, m := range seed.Members {
		if err := exec("member "+m.UserID, `
INSERT INTO league_members (league_public_id, user_id, display_name, status, joined_at)
VALUES (:league_public_id, :user_id, :display_name, :status, :joined_at)
ON CONFLICT (league_public_id, user_id) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"league_public_id": m.LeagueID,
			"user_id":          m.UserID,
			"display_name":     m.DisplayName,
			"status":           m.Status,
			"joined_at":        m.JoinedAt,
		}); err != nil {
			return err
		}
	}

	for _, p := range seed.Predictions {
		if err := exec("prediction "+p.ID, `
INSERT INTO predictions (public_id, match_public_id, user_id, predicted_home, predicted_away, outcome)
VALUES (:public_id, :match_public_id, :user_id, :predicted_home, :predicted_away, :outcome)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":       p.ID,
			"match_public_id": p.MatchID,
			"user_id":         p.UserID,
			"predicted_home":  p.PredictedHome,
			"predicted_away":  p.PredictedAway,
			"outcome":         string(p.Outcome),
		}); err != nil {
			return err
		}
	}

	for _, s := range seed.Prizes {
		if err := exec("prize setting "+s.ID, `
INSERT INTO league_prize_settings (public_id, league_public_id, prize_type, prize_rank, amount)
VALUES (:public_id, :league_public_id, :prize_type, :prize_rank, :amount)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":        s.ID,
			"league_public_id": s.LeagueID,
			"prize_type":       string(s.Type),
			"prize_rank":       s.Rank,
			"amount":           s.Amount,
		}); err != nil {
			return err
		}
	}

	for _, rule := range seed.BoostRules {
		windows, err := encodeWindows(rule.Windows)
		if err != nil {
			return fmt.Errorf("encode seed boost windows: %w", err)
		}
		if err := exec("boost rule "+string(rule.Code), `
INSERT INTO boost_window_rules (league_public_id, boost_code, is_enabled, total_uses_per_season, windows)
VALUES (:league_public_id, :boost_code, :is_enabled, :total_uses_per_season, :windows)
ON CONFLICT (league_public_id, boost_code) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"league_public_id":      rule.LeagueID,
			"boost_code":            string(rule.Code),
			"is_enabled":            rule.IsEnabled,
			"total_uses_per_season": rule.TotalUsesPerSeason,
			"windows":               string(windows),
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
