package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/repositories"
)

// SearchAnalyticsService records search telemetry without blocking the
// wizard request path.
type SearchAnalyticsService struct {
	repo repositories.SearchAnalyticsRepository
}

func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// TrackSearch logs the event in the background. The request context may
// already be cancelled by the time the write happens, so a fresh one is
// used.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			log.Warn().Err(err).Str("query", event.Query).Msg("failed to log search event")
		}
	}()
}

// GetZeroResultQueries returns recent searches that found nothing.
func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.GetZeroResultQueries(ctx, limit)
}
