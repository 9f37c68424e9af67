package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
)

// ErrSessionNotFound is returned when a session does not exist or expired.
var ErrSessionNotFound = errors.New("wizard session not found")

// SessionStore persists wizard sessions. Implementations must treat Save
// as a full replace and refresh the TTL on every write.
type SessionStore interface {
	Get(ctx context.Context, id string) (*entities.Session, error)
	Save(ctx context.Context, session *entities.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
