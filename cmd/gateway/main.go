package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/adapters/cache"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/adapters/database"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/adapters/sessions"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/api/handlers"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/api/middleware"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/api/routes"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/application/services"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/providers"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/repositories"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/clients/postgres"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/clients/redis"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/clients/searchapi"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/observability"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/telegram"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/config"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded configuration from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry export is optional
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Upstream search/booking API client
	apiClient := searchapi.NewClient(&cfg.SearchAPI)

	// Redis backs both sessions and the response cache; without it the
	// gateway degrades to in-process sessions and no caching.
	var cacheProvider providers.CacheProvider
	var sessionStore repositories.SessionStore
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory session store")
		sessionStore = sessions.NewMemoryStore()
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		sessionStore = sessions.NewRedisStore(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Analytics persistence is optional: the wizard works without it.
	var analyticsService *services.SearchAnalyticsService
	var analyticsHandler *handlers.AnalyticsHandler
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("PostgreSQL unavailable, search analytics disabled")
	} else {
		defer pgClient.Close()
		analyticsAdapter := database.NewSearchAnalyticsAdapter(pgClient, metrics)
		analyticsService = services.NewSearchAnalyticsService(analyticsAdapter)
		analyticsHandler = handlers.NewAnalyticsHandler(analyticsService)
	}

	flags := services.NewFeatureFlags()

	wizardService := services.NewWizardService(
		apiClient,
		sessionStore,
		analyticsService,
		flags,
		metrics,
		cfg.Wizard.SessionTTL,
		cfg.Wizard.PageSize,
	)
	bookingService := services.NewBookingService(apiClient, sessionStore)
	citiesService := services.NewCitiesService(apiClient, cacheProvider)

	// Telegram init-data validation requires the bot token.
	var validator *telegram.Validator
	var host providers.HostCapabilities = providers.NoopHost{}
	if cfg.Telegram.BotToken != "" {
		validator = telegram.NewValidator(cfg.Telegram.BotToken)
		host = telegram.Host{}
		log.Info().Msg("Telegram init-data validation enabled")
	} else {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN is not set; requests are unauthenticated")
	}

	wizardHandler := handlers.NewWizardHandler(wizardService, host, flags)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	citiesHandler := handlers.NewCitiesHandler(citiesService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	router := routes.NewRouter(
		wizardHandler,
		bookingHandler,
		citiesHandler,
		analyticsHandler,
		cacheMiddleware,
		validator,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
