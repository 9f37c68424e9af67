package handlers

import (
	"context"
	"net/http"
)

// CitiesService defines the city-list operation used by the handler.
type CitiesService interface {
	List(ctx context.Context) []string
}

// CitiesHandler serves the selectable city list.
type CitiesHandler struct {
	service CitiesService
}

// NewCitiesHandler creates a new cities handler.
func NewCitiesHandler(service CitiesService) *CitiesHandler {
	return &CitiesHandler{service: service}
}

// ListCities handles GET /api/cities. Never fails: the service degrades to
// a fixed fallback list.
func (h *CitiesHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string][]string{
		"cities": h.service.List(r.Context()),
	})
}
