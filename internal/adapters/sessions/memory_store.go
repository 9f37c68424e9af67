package sessions

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/repositories"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore implements SessionStore in process memory with TTL
// expiration. Sessions are stored as JSON so Get always hands back an
// independent copy, matching the Redis store's semantics.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get loads a session by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		if ok {
			s.mu.Lock()
			delete(s.entries, id)
			s.mu.Unlock()
		}
		return nil, repositories.ErrSessionNotFound
	}

	var session entities.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, repositories.ErrSessionNotFound
	}
	return &session, nil
}

// Save replaces the session and refreshes its TTL.
func (s *MemoryStore) Save(ctx context.Context, session *entities.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[session.ID] = memoryEntry{
		data:      data,
		expiresAt: s.now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}
