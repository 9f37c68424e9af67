package entities

import (
	"time"
)

// SearchEvent records a single initial search for analytics. Zero-result
// queries are the interesting subset: they show what the assortment is
// missing.
type SearchEvent struct {
	ID          string    `json:"id" db:"id"`
	Query       string    `json:"query" db:"query"`
	City        string    `json:"city" db:"city"`
	ResultCount int       `json:"result_count" db:"result_count"`
	LatencyMs   int       `json:"latency_ms" db:"latency_ms"`
	SessionID   string    `json:"session_id,omitempty" db:"session_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
