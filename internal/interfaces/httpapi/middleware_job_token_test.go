package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireInternalJobToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		provided string
		want     int
	}{
		{name: "valid token", token: "secret", provided: "secret", want: http.StatusOK},
		{name: "trimmed token", token: " secret ", provided: "secret ", want: http.StatusOK},
		{name: "wrong token", token: "secret", provided: "other", want: http.StatusUnauthorized},
		{name: "missing header", token: "secret", provided: "", want: http.StatusUnauthorized},
		{name: "not configured", token: "", provided: "secret", want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireInternalJobToken(tt.token)(next)

			req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/settle-round", nil)
			if tt.provided != "" {
				req.Header.Set(internalJobTokenHeader, tt.provided)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
