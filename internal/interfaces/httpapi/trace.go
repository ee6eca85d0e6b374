package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("prediction-league/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// routeParamAttributes maps path wildcards to the span attributes the usecase layer uses.
var routeParamAttributes = []struct {
	param string
	key   attribute.Key
}{
	{param: "leagueID", key: "league.league_id"},
	{param: "roundID", key: "league.round_id"},
	{param: "code", key: "league.boost_code"},
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		// No parent span in context (e.g. filtered route like /healthz):
		// avoid creating standalone root spans for internal helpers.
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

func pathAttributes(r *http.Request) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(routeParamAttributes))
	for _, p := range routeParamAttributes {
		if v := strings.TrimSpace(r.PathValue(p.param)); v != "" {
			out = append(out, p.key.String(v))
		}
	}
	return out
}
