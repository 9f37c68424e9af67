package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
)

// AnalyticsReader defines the analytics queries used by the handler.
type AnalyticsReader interface {
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}

// AnalyticsHandler serves search-telemetry reports.
type AnalyticsHandler struct {
	service AnalyticsReader
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service AnalyticsReader) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetZeroResultQueries handles GET /api/analytics/zero-result-queries
func (h *AnalyticsHandler) GetZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = parsed
	}

	events, err := h.service.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if events == nil {
		events = []*entities.SearchEvent{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}
