package main

import (
	"context"
	"log"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/clients/postgres"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	_, err = pgClient.DB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS search_analytics (
			id UUID PRIMARY KEY,
			query TEXT NOT NULL,
			city TEXT NOT NULL DEFAULT '',
			result_count INTEGER NOT NULL DEFAULT 0,
			latency_ms BIGINT NOT NULL DEFAULT 0,
			session_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		log.Fatalf("Failed to create search_analytics table: %v", err)
	}

	_, err = pgClient.DB().ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_search_analytics_zero_results
			ON search_analytics (created_at DESC)
			WHERE result_count = 0
	`)
	if err != nil {
		log.Fatalf("Failed to create search_analytics index: %v", err)
	}

	log.Println("Migration complete")
}
