package repositories

import (
	"context"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
)

// SearchAnalyticsRepository persists search telemetry.
type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
