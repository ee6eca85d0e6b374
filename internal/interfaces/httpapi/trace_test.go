package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.RunSettleRoundJob", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPathAttributes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/l1/rounds/r1/boosts/DoubleUp/eligibility", nil)
	req.SetPathValue("leagueID", "l1")
	req.SetPathValue("roundID", "r1")
	req.SetPathValue("code", "DoubleUp")

	got := map[string]string{}
	for _, kv := range pathAttributes(req) {
		got[string(kv.Key)] = kv.Value.AsString()
	}
	want := map[string]string{"league.league_id": "l1", "league.round_id": "r1", "league.boost_code": "DoubleUp"}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("attribute %s=%q want=%q (all=%v)", k, got[k], v, got)
		}
	}

	bare := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	if attrs := pathAttributes(bare); len(attrs) != 0 {
		t.Fatalf("expected no attributes for route without params, got %v", attrs)
	}
}
