package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// Services are the engine entry points the handler exposes.
type Services struct {
	Engine   *usecase.SettlementEngine
	Reports  *usecase.SettlementReportService
	Rankings *usecase.RankingService
	Boosts   *usecase.BoostService
}

type Handler struct {
	engine    *usecase.SettlementEngine
	reports   *usecase.SettlementReportService
	rankings  *usecase.RankingService
	boosts    *usecase.BoostService
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		engine:    services.Engine,
		reports:   services.Reports,
		rankings:  services.Rankings,
		boosts:    services.Boosts,
		logger:    logger,
		validator: newValidator(),
	}
}

// newValidator reports fields by their json names so error locations match the request body.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// validateRequest runs struct validation; location names where the fields came from ("body" or "path").
func (h *Handler) validateRequest(ctx context.Context, location string, payload any) error {
	err := h.validator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		return &requestValidationError{location: location, fields: fields}
	}
	return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
}

// decodeAndValidate reads a strict JSON body into dst and validates it.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, "body", dst)
}
