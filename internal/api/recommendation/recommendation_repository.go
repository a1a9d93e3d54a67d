package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/RezenkovD/TravelAiApi/app/observability/metrics"
	"github.com/RezenkovD/TravelAiApi/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists TravelRequest rows. Rows are insert-only.
type Repository interface {
	Save(ctx context.Context, req *types.TravelRequest) (*types.TravelRequest, error)
	GetByID(ctx context.Context, id int64) (*types.TravelRequest, error)
	ListAll(ctx context.Context) ([]types.TravelRequest, error)
}

// DBPool is the subset of *pgxpool.Pool the repository uses.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RepositoryImpl struct {
	pgpool  DBPool
	metrics *metrics.AppMetrics
	logger  *slog.Logger
}

func NewRepository(pgpool DBPool, m *metrics.AppMetrics, logger *slog.Logger) *RepositoryImpl {
	if m == nil {
		m = metrics.Noop()
	}
	return &RepositoryImpl{
		pgpool:  pgpool,
		metrics: m,
		logger:  logger,
	}
}

const selectTravelRequestColumns = `SELECT id, text, exclude, num_places, response_json, created_at FROM travel_requests`

// Save inserts req inside its own transaction and returns the stored row with
// the assigned id and the created_at the database kept. The transaction is rolled back on every failure path.
func (r *RepositoryImpl) Save(ctx context.Context, req *types.TravelRequest) (saved *types.TravelRequest, err error) {
	ctx, span := r.startSpan(ctx, "Save", "INSERT")
	defer span.End()
	defer r.observe(ctx, "INSERT", time.Now(), &err)

	l := r.logger.With(slog.String("method", "Save"))

	placesJSON, err := json.Marshal(req.Places)
	if err != nil {
		return nil, fmt.Errorf("failed to encode places: %w", err)
	}

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				l.WarnContext(ctx, "Failed to roll back transaction", slog.Any("error", rbErr))
			}
		}
	}()

	var (
		id        int64
		createdAt time.Time
	)
	err = tx.QueryRow(ctx, `
		INSERT INTO travel_requests (text, exclude, num_places, response_json, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		req.Text, req.Exclude, req.NumPlaces, placesJSON, req.CreatedAt,
	).Scan(&id, &createdAt)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert travel request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, fmt.Errorf("failed to insert travel request: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		l.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// created_at as stored, so it matches what later reads return
	stored := *req
	stored.ID = id
	stored.CreatedAt = createdAt
	span.SetAttributes(attribute.Int64("travel_request.id", id))
	span.SetStatus(codes.Ok, "")
	l.DebugContext(ctx, "Travel request saved", slog.Int64("id", id))
	return &stored, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id int64) (req *types.TravelRequest, err error) {
	ctx, span := r.startSpan(ctx, "GetByID", "SELECT")
	span.SetAttributes(attribute.Int64("travel_request.id", id))
	defer span.End()
	defer r.observe(ctx, "SELECT", time.Now(), &err)

	row := r.pgpool.QueryRow(ctx, selectTravelRequestColumns+` WHERE id = $1`, id)
	req, err = scanTravelRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, types.ErrNotFound
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to fetch travel request", slog.Int64("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to fetch travel request %d: %w", id, err)
	}
	span.SetStatus(codes.Ok, "")
	return req, nil
}

// ListAll returns every row in insertion order.
func (r *RepositoryImpl) ListAll(ctx context.Context) (out []types.TravelRequest, err error) {
	ctx, span := r.startSpan(ctx, "ListAll", "SELECT")
	defer span.End()
	defer r.observe(ctx, "SELECT", time.Now(), &err)

	rows, err := r.pgpool.Query(ctx, selectTravelRequestColumns+` ORDER BY id ASC`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query travel requests", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query travel requests: %w", err)
	}
	defer rows.Close()

	out = make([]types.TravelRequest, 0)
	for rows.Next() {
		req, scanErr := scanTravelRequest(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan travel request: %w", scanErr)
			span.RecordError(err)
			return nil, err
		}
		out = append(out, *req)
	}
	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating travel requests: %w", err)
	}

	span.SetAttributes(attribute.Int("travel_request.count", len(out)))
	span.SetStatus(codes.Ok, "")
	return out, nil
}

func scanTravelRequest(row pgx.Row) (*types.TravelRequest, error) {
	var (
		req        types.TravelRequest
		placesJSON []byte
	)
	if err := row.Scan(&req.ID, &req.Text, &req.Exclude, &req.NumPlaces, &placesJSON, &req.CreatedAt); err != nil {
		return nil, err
	}
	if len(placesJSON) > 0 {
		if err := json.Unmarshal(placesJSON, &req.Places); err != nil {
			return nil, fmt.Errorf("failed to decode response_json of request %d: %w", req.ID, err)
		}
	}
	return &req, nil
}

func (r *RepositoryImpl) startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return otel.Tracer("RecommendationRepository").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "travel_requests"),
	))
}

func (r *RepositoryImpl) observe(ctx context.Context, operation string, start time.Time, err *error) {
	attrs := metric.WithAttributes(attribute.String("db.operation", operation))
	r.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	// a miss is not a query failure
	if *err != nil && !errors.Is(*err, types.ErrNotFound) {
		r.metrics.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
