package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/repositories"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := entities.NewSession("user-1")
	session.Search.Name = "аспирин"
	require.NoError(t, store.Save(ctx, session, time.Minute))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, "аспирин", got.Search.Name)
	assert.Equal(t, entities.StateSearching, got.State)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := entities.NewSession("user-1")
	require.NoError(t, store.Save(ctx, session, time.Minute))

	first, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	first.Search.Name = "mutated"

	second, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, second.Search.Name)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	session := entities.NewSession("user-1")
	require.NoError(t, store.Save(ctx, session, time.Minute))

	current = current.Add(2 * time.Minute)
	_, err := store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := entities.NewSession("user-1")
	require.NoError(t, store.Save(ctx, session, time.Minute))
	require.NoError(t, store.Delete(ctx, session.ID))

	_, err := store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
}

func TestMemoryStoreMissingSession(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
}
