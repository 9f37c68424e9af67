package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/repositories"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/clients/postgres"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/observability"
	apperrors "github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/errors"
)

// SearchAnalyticsAdapter implements search telemetry persistence in Postgres.
type SearchAnalyticsAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewSearchAnalyticsAdapter creates a new search analytics adapter.
// metrics may be nil.
func NewSearchAnalyticsAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// LogEvent inserts one search event.
func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":           event.ID,
		"query":        event.Query,
		"city":         event.City,
		"result_count": event.ResultCount,
		"latency_ms":   event.LatencyMs,
		"session_id":   event.SessionID,
		"created_at":   event.CreatedAt,
	}

	query, args, err := a.db.Insert("search_analytics").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build search event insert query", err)
	}

	started := time.Now()
	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if a.metrics != nil {
		observability.RecordDBMetric(ctx, a.metrics, "insert_search_event", time.Since(started))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

// GetZeroResultQueries returns the most recent searches that found nothing.
func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.db.From("search_analytics").
		Select("id", "query", "city", "result_count", "latency_ms", "session_id", "created_at").
		Where(goqu.C("result_count").Eq(0)).
		Order(goqu.C("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build zero result query", err)
	}

	started := time.Now()
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if a.metrics != nil {
		observability.RecordDBMetric(ctx, a.metrics, "zero_result_queries", time.Since(started))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	var events []*entities.SearchEvent
	for rows.Next() {
		e := &entities.SearchEvent{}
		if err := rows.Scan(
			&e.ID,
			&e.Query,
			&e.City,
			&e.ResultCount,
			&e.LatencyMs,
			&e.SessionID,
			&e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate search events", err)
	}

	return events, nil
}
