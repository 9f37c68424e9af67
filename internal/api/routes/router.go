package routes

import (
	"net/http"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/api/handlers"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/api/middleware"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/observability"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/telegram"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	wizardHandler    *handlers.WizardHandler
	bookingHandler   *handlers.BookingHandler
	citiesHandler    *handlers.CitiesHandler
	analyticsHandler *handlers.AnalyticsHandler

	cacheMiddleware *middleware.CacheMiddleware
	validator       *telegram.Validator
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	wizardHandler *handlers.WizardHandler,
	bookingHandler *handlers.BookingHandler,
	citiesHandler *handlers.CitiesHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	validator *telegram.Validator,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		wizardHandler:    wizardHandler,
		bookingHandler:   bookingHandler,
		citiesHandler:    citiesHandler,
		analyticsHandler: analyticsHandler,
		cacheMiddleware:  cacheMiddleware,
		validator:        validator,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Wizard session endpoints
	r.mux.HandleFunc("POST /api/wizard/sessions", r.wizardHandler.CreateSession)
	r.mux.HandleFunc("GET /api/wizard/sessions/{id}", r.wizardHandler.GetSession)
	r.mux.HandleFunc("DELETE /api/wizard/sessions/{id}", r.wizardHandler.DeleteSession)
	r.mux.HandleFunc("POST /api/wizard/sessions/{id}/search", r.wizardHandler.Search)
	r.mux.HandleFunc("POST /api/wizard/sessions/{id}/variant", r.wizardHandler.SelectVariant)
	r.mux.HandleFunc("POST /api/wizard/sessions/{id}/page", r.wizardHandler.ChangePage)
	r.mux.HandleFunc("POST /api/wizard/sessions/{id}/back", r.wizardHandler.Back)
	r.mux.HandleFunc("POST /api/wizard/sessions/{id}/back-to-variants", r.wizardHandler.BackToVariants)
	r.mux.HandleFunc("POST /api/wizard/sessions/{id}/new-search", r.wizardHandler.NewSearch)
	r.mux.HandleFunc("POST /api/wizard/sessions/{id}/navigate", r.wizardHandler.Navigate)

	// Booking endpoint
	r.mux.HandleFunc("POST /api/orders", r.bookingHandler.CreateOrder)

	// Reference data endpoints
	r.mux.HandleFunc("GET /api/cities", r.citiesHandler.ListCities)

	// Analytics endpoints
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.GetZeroResultQueries)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.TelegramAuthMiddleware(r.validator)(handler)

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
