package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/RezenkovD/TravelAiApi/internal/api"
	"github.com/RezenkovD/TravelAiApi/internal/types"
)

// DefaultNumPlaces is used when the create body omits num_places.
const DefaultNumPlaces = 4

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// CreateRecommendation godoc
// @Summary      Create recommendation
// @Description  Generates num_places places for the travel description and stores the result.
// @Tags         Recommendations
// @Accept       json
// @Produce      json
// @Param        request body types.CreateRecommendationRequest true "Travel preferences"
// @Success      200 {object} types.TravelRequest
// @Failure      400 {object} types.ErrorDetail "num_places < 1 or empty text"
// @Failure      422 {object} types.ErrorDetail "Malformed body"
// @Failure      502 {object} types.ErrorDetail "Generation failed"
// @Router       /recommendations/ [post]
func (h *HandlerImpl) CreateRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "CreateRecommendation", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/recommendations/"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateRecommendation"))

	var body types.CreateRecommendationRequest
	if err := api.DecodeJSONBody(w, r, &body); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if body.Text == nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "text is required")
		return
	}
	numPlaces := DefaultNumPlaces
	if body.NumPlaces != nil {
		numPlaces = *body.NumPlaces
	}
	span.SetAttributes(attribute.Int("num_places", numPlaces))

	result, err := h.service.Create(ctx, *body.Text, numPlaces, body.Exclude)
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// RefineRecommendation godoc
// @Summary      Refine recommendation
// @Description  Adds terms to the exclusions of an existing request and stores a freshly generated request. The original is not modified.
// @Tags         Recommendations
// @Accept       json
// @Produce      json
// @Param        id path int true "Travel request id"
// @Param        request body types.ExcludeRecommendationRequest true "Terms to exclude"
// @Success      200 {object} types.TravelRequest
// @Failure      404 {object} types.ErrorDetail "Request not found"
// @Failure      422 {object} types.ErrorDetail "Malformed body or id"
// @Failure      502 {object} types.ErrorDetail "Generation failed"
// @Router       /recommendations/{id}/exclude [post]
func (h *HandlerImpl) RefineRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "RefineRecommendation", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/recommendations/{id}/exclude"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "RefineRecommendation"))

	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}
	span.SetAttributes(attribute.Int64("travel_request.id", id))

	var body types.ExcludeRecommendationRequest
	if err = api.DecodeJSONBody(w, r, &body); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if body.Exclude == nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "exclude is required")
		return
	}

	result, err := h.service.Refine(ctx, id, *body.Exclude)
	if err != nil {
		h.writeServiceError(ctx, w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// GetHistory godoc
// @Summary      List history
// @Description  Returns every stored travel request, originals and refinements, in insertion order.
// @Tags         Recommendations
// @Produce      json
// @Success      200 {array} types.TravelRequest
// @Failure      500 {object} types.ErrorDetail
// @Router       /history [get]
func (h *HandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "GetHistory", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/history"),
	))
	defer span.End()

	history, err := h.service.ListHistory(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, r, h.logger.With(slog.String("handler", "GetHistory")), err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, history)
}

func (h *HandlerImpl) writeServiceError(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	var (
		validationErr *types.ValidationError
		generationErr *types.GenerationError
	)
	switch {
	case errors.As(err, &validationErr):
		api.ErrorResponse(w, r, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, types.ErrNotFound.Error())
	case errors.As(err, &generationErr):
		api.ErrorResponse(w, r, http.StatusBadGateway, generationErr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		l.ErrorContext(ctx, "Request timed out", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusGatewayTimeout, "Request timed out")
	default:
		l.ErrorContext(ctx, "Unexpected error", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
