package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type roundJobRequest struct {
	RoundID string `json:"round_id" validate:"required"`
}

type matchJobRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

type seasonJobRequest struct {
	SeasonID string `json:"season_id" validate:"required"`
}

type useBoostRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
	RoundID  string `json:"round_id" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	Code     string `json:"code" validate:"required,max=64"`
}

func (h *Handler) RunStartRoundJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStartRoundJob")
	defer span.End()

	var req roundJobRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.engine.StartRound(ctx, strings.TrimSpace(req.RoundID))
	if err != nil {
		h.logger.WarnContext(ctx, "start round job failed", "round_id", req.RoundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) RunScoreMatchJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreMatchJob")
	defer span.End()

	var req matchJobRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.engine.ScoreMatch(ctx, strings.TrimSpace(req.MatchID))
	if err != nil {
		h.logger.WarnContext(ctx, "score match job failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) RunSettleRoundJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettleRoundJob")
	defer span.End()

	var req roundJobRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.engine.SettleRound(ctx, strings.TrimSpace(req.RoundID))
	if err != nil {
		h.logger.ErrorContext(ctx, "settle round job failed", "round_id", req.RoundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) RunRecalculateSeasonJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecalculateSeasonJob")
	defer span.End()

	var req seasonJobRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.engine.RecalculateSeason(ctx, strings.TrimSpace(req.SeasonID))
	if err != nil {
		h.logger.ErrorContext(ctx, "recalculate season job failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) RunUseBoostJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunUseBoostJob")
	defer span.End()

	var req useBoostRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.boosts.UseBoost(ctx, usecase.BoostRequest{
		LeagueID: strings.TrimSpace(req.LeagueID),
		RoundID:  strings.TrimSpace(req.RoundID),
		UserID:   strings.TrimSpace(req.UserID),
		Code:     boost.Code(strings.TrimSpace(req.Code)),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "use boost job failed",
			"league_id", req.LeagueID,
			"round_id", req.RoundID,
			"user_id", req.UserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if !result.CanUse {
		status = http.StatusConflict
	}
	writeSuccess(ctx, w, status, eligibilityToDTO(result))
}
