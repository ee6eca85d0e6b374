package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/settlement-report", handler.GetSettlementReport)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/stats", handler.ListMemberStats)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/rounds/{roundID}/boosts/{code}/eligibility", handler.GetBoostEligibility)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	guard := RequireInternalJobToken(internalJobToken)
	// recalculate-season replays every round of the season in order and stops at the first failing round.
	jobs := map[string]http.HandlerFunc{
		"start-round":        handler.RunStartRoundJob,
		"score-match":        handler.RunScoreMatchJob,
		"settle-round":       handler.RunSettleRoundJob,
		"recalculate-season": handler.RunRecalculateSeasonJob,
		"use-boost":          handler.RunUseBoostJob,
	}
	for name, run := range jobs {
		mux.Handle("POST /v1/internal/jobs/"+name, guard(run))
	}
}
