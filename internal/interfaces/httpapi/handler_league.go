package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

func (h *Handler) GetSettlementReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSettlementReport", pathAttributes(r)...)
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	report, err := h.reports.Report(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get settlement report failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) ListMemberStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMemberStats", pathAttributes(r)...)
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	stats, err := h.rankings.ListStats(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list member stats failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]memberStatsDTO, 0, len(stats))
	for _, item := range stats {
		items = append(items, memberStatsToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetBoostEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoostEligibility", pathAttributes(r)...)
	defer span.End()

	req := boostEligibilityRequest{
		LeagueID: strings.TrimSpace(r.PathValue("leagueID")),
		RoundID:  strings.TrimSpace(r.PathValue("roundID")),
		Code:     strings.TrimSpace(r.PathValue("code")),
		UserID:   strings.TrimSpace(r.URL.Query().Get("user_id")),
	}
	if err := h.validateRequest(ctx, "path", req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.boosts.Eligibility(ctx, usecase.BoostRequest{
		LeagueID: req.LeagueID,
		RoundID:  req.RoundID,
		UserID:   req.UserID,
		Code:     boost.Code(req.Code),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "get boost eligibility failed", "league_id", req.LeagueID, "round_id", req.RoundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eligibilityToDTO(result))
}

type boostEligibilityRequest struct {
	LeagueID string `validate:"required"`
	RoundID  string `validate:"required"`
	Code     string `validate:"required"`
	UserID   string `validate:"required"`
}

type eligibilityDTO struct {
	CanUse               bool   `json:"can_use"`
	Reason               string `json:"reason,omitempty"`
	Message              string `json:"message,omitempty"`
	AlreadyUsedThisRound bool   `json:"already_used_this_round"`
	RemainingSeasonUses  int    `json:"remaining_season_uses"`
	RemainingWindowUses  int    `json:"remaining_window_uses"`
}

type memberStatsDTO struct {
	UserID              string `json:"user_id"`
	OverallPoints       int    `json:"overall_points"`
	OverallRank         int    `json:"overall_rank"`
	MonthPoints         int    `json:"month_points"`
	MonthRank           int    `json:"month_rank"`
	LiveRoundPoints     int    `json:"live_round_points"`
	LiveRoundRank       int    `json:"live_round_rank"`
	StableRoundPoints   int    `json:"stable_round_points"`
	StableRoundRank     int    `json:"stable_round_rank"`
	SnapshotOverallRank int    `json:"snapshot_overall_rank"`
	SnapshotMonthRank   int    `json:"snapshot_month_rank"`
	SnapshotRoundID     string `json:"snapshot_round_id,omitempty"`
	UpdatedAtUTC        string `json:"updated_at_utc,omitempty"`
}

func eligibilityToDTO(v boost.Eligibility) eligibilityDTO {
	return eligibilityDTO{
		CanUse:               v.CanUse,
		Reason:               string(v.Reason),
		Message:              v.Message,
		AlreadyUsedThisRound: v.AlreadyUsedThisRound,
		RemainingSeasonUses:  v.RemainingSeasonUses,
		RemainingWindowUses:  v.RemainingWindowUses,
	}
}

func memberStatsToDTO(v ranking.MemberStats) memberStatsDTO {
	out := memberStatsDTO{
		UserID:              v.UserID,
		OverallPoints:       v.OverallPoints,
		OverallRank:         v.OverallRank,
		MonthPoints:         v.MonthPoints,
		MonthRank:           v.MonthRank,
		LiveRoundPoints:     v.LiveRoundPoints,
		LiveRoundRank:       v.LiveRoundRank,
		StableRoundPoints:   v.StableRoundPoints,
		StableRoundRank:     v.StableRoundRank,
		SnapshotOverallRank: v.SnapshotOverallRank,
		SnapshotMonthRank:   v.SnapshotMonthRank,
		SnapshotRoundID:     v.SnapshotRoundID,
	}
	if !v.UpdatedAt.IsZero() {
		out.UpdatedAtUTC = v.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}
