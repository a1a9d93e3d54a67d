package recommendation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/RezenkovD/TravelAiApi/app/observability/metrics"
	generativeAI "github.com/RezenkovD/TravelAiApi/internal/api/generative_ai"
	"github.com/RezenkovD/TravelAiApi/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service generates, refines and lists travel recommendations.
type Service interface {
	Create(ctx context.Context, text string, numPlaces int, exclude *string) (*types.TravelRequest, error)
	Refine(ctx context.Context, id int64, excludeAddendum string) (*types.TravelRequest, error)
	ListHistory(ctx context.Context) ([]types.TravelRequest, error)
}

type ServiceImpl struct {
	repo    Repository
	client  generativeAI.PlaceModelClient
	retry   RetryPolicy
	metrics *metrics.AppMetrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewServiceImpl(repo Repository, client generativeAI.PlaceModelClient, retry RetryPolicy, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	if m == nil {
		m = metrics.Noop()
	}
	return &ServiceImpl{
		repo:    repo,
		client:  client,
		retry:   retry,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Create validates the input, generates numPlaces places and stores a new
// TravelRequest. Nothing is stored when generation fails.
func (s *ServiceImpl) Create(ctx context.Context, text string, numPlaces int, exclude *string) (*types.TravelRequest, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "Create", trace.WithAttributes(
		attribute.Int("num_places", numPlaces),
		attribute.Bool("has_exclude", exclude != nil && *exclude != ""),
	))
	defer span.End()

	if numPlaces < 1 {
		err := &types.ValidationError{Message: "num_places must be >= 1"}
		span.SetStatus(codes.Error, err.Message)
		return nil, err
	}
	if text == "" {
		err := &types.ValidationError{Message: "text must not be empty"}
		span.SetStatus(codes.Error, err.Message)
		return nil, err
	}

	var excludeValue string
	if exclude != nil {
		excludeValue = *exclude
	}
	return s.generateAndSave(ctx, span, text, numPlaces, excludeValue, exclude)
}

// Refine regenerates the places of an existing request with addendum added
// to its exclusions and stores the result as a new row. The original row is
// left as it was.
func (s *ServiceImpl) Refine(ctx context.Context, id int64, excludeAddendum string) (*types.TravelRequest, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "Refine", trace.WithAttributes(
		attribute.Int64("travel_request.id", id),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Refine"), slog.Int64("id", id))

	base, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			l.ErrorContext(ctx, "Failed to load base request", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}

	combined := MergeExclude(base.ExcludeValue(), excludeAddendum)
	l.DebugContext(ctx, "Refining request", slog.String("exclude", combined))
	return s.generateAndSave(ctx, span, base.Text, base.NumPlaces, combined, &combined)
}

func (s *ServiceImpl) ListHistory(ctx context.Context) ([]types.TravelRequest, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "ListHistory")
	defer span.End()

	history, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list history", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return history, nil
}

func (s *ServiceImpl) generateAndSave(ctx context.Context, span trace.Span, text string, numPlaces int, exclude string, storedExclude *string) (*types.TravelRequest, error) {
	places, err := s.generate(ctx, text, numPlaces, exclude)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, err
	}

	saved, err := s.repo.Save(ctx, &types.TravelRequest{
		Text:      text,
		NumPlaces: numPlaces,
		Exclude:   storedExclude,
		Places:    places,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save travel request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, fmt.Errorf("failed to save travel request: %w", err)
	}

	span.SetAttributes(attribute.Int64("travel_request.id", saved.ID))
	span.SetStatus(codes.Ok, "")
	return saved, nil
}

// generate runs prompt -> provider (with retry) -> validation. Provider,
// malformed and shape failures come back as *types.GenerationError.
func (s *ServiceImpl) generate(ctx context.Context, text string, numPlaces int, exclude string) ([]types.Place, error) {
	generationID := uuid.NewString()
	l := s.logger.With(slog.String("generation_id", generationID), slog.String("provider", s.client.Name()))
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("generation.id", generationID))

	start := time.Now()
	s.metrics.GenerationRequestsTotal.Add(ctx, 1)

	prompt := BuildPrompt(text, numPlaces, exclude)
	attempts := 0
	raw, err := s.retry.Do(ctx, func(ctx context.Context) (string, error) {
		attempts++
		s.metrics.GenerationAttemptsTotal.Add(ctx, 1)
		return s.client.Generate(ctx, prompt)
	})
	s.metrics.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		var providerErr *types.ProviderError
		if !errors.As(err, &providerErr) {
			l.WarnContext(ctx, "Generation aborted", slog.Int("attempts", attempts), slog.Any("error", err))
			return nil, fmt.Errorf("generation aborted: %w", err)
		}
		l.ErrorContext(ctx, "Provider failed after retries", slog.Int("attempts", attempts), slog.Any("error", err))
		s.metrics.GenerationFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "provider")))
		return nil, &types.GenerationError{Cause: err}
	}

	places, err := ValidatePlaces(raw, numPlaces, s.client.Name())
	if err != nil {
		kind := "shape"
		var malformed *types.MalformedResponseError
		if errors.As(err, &malformed) {
			kind = "malformed"
		}
		l.WarnContext(ctx, "Model response rejected",
			slog.String("kind", kind),
			slog.Int("expected", numPlaces),
			slog.Any("error", err))
		s.metrics.GenerationFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
		return nil, &types.GenerationError{Cause: err}
	}

	l.InfoContext(ctx, "Places generated", slog.Int("count", len(places)), slog.Int("attempts", attempts))
	return places, nil
}
