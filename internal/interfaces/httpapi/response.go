package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "prediction-league"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain       string `json:"domain"`
	Reason       string `json:"reason"`
	Message      string `json:"message"`
	Location     string `json:"location,omitempty"`
	LocationType string `json:"locationType,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// errorMappings is checked in order; the first sentinel found in the chain wins.
var errorMappings = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrInvalidInput, mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Status: "UNAUTHENTICATED"}},
	{usecase.ErrDependencyUnavailable, mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}},
	{resilience.ErrCircuitOpen, mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}},
	{usecase.ErrSettlementAborted, mappedError{HTTPStatus: http.StatusConflict, Reason: "settlementAborted", Status: "ABORTED"}},
}

func mapError(err error) mappedError {
	for _, m := range errorMappings {
		if crerr.Is(err, m.target) {
			return m.mapped
		}
	}
	return internalError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

// writeError maps err onto the envelope. 5xx errors are recorded on the active span,
// and a plain 500 never echoes err to the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, mapped.Status)
	}
	if mapped.HTTPStatus == http.StatusInternalServerError {
		writeInternalError(ctx, w)
		return
	}

	items := []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: err.Error()}}
	var invalid *requestValidationError
	if crerr.As(err, &invalid) && len(invalid.fields) > 0 {
		items = invalid.items(mapped.Reason)
	}
	writeErrorEnvelope(w, mapped, err.Error(), items)
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	const msg = "internal server error"
	writeErrorEnvelope(w, internalError, msg, []googleErrorItem{
		{Domain: errorDomain, Reason: internalError.Reason, Message: msg},
	})
}

func writeErrorEnvelope(w http.ResponseWriter, mapped mappedError, msg string, items []googleErrorItem) {
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: msg,
			Status:  mapped.Status,
			Errors:  items,
		},
	})
}

// requestValidationError carries validator field failures as ErrInvalidInput.
type requestValidationError struct {
	location string
	fields   validator.ValidationErrors
}

func (e *requestValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed: %s", usecase.ErrInvalidInput, e.fields.Error())
}

func (e *requestValidationError) Unwrap() error { return usecase.ErrInvalidInput }

func (e *requestValidationError) items(reason string) []googleErrorItem {
	out := make([]googleErrorItem, 0, len(e.fields))
	for _, fe := range e.fields {
		msg := fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg += " (" + fe.Param() + ")"
		}
		out = append(out, googleErrorItem{
			Domain:       errorDomain,
			Reason:       reason,
			Message:      msg,
			Location:     fe.Field(),
			LocationType: e.location,
		})
	}
	return out
}
