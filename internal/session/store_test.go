package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/footprint/internal/signal"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestStoreLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "abc123", "owner@x.com")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, 0, created.Progress)

	require.NoError(t, store.Update(ctx, "abc123", StatusProcessing, 40, "fetching sent mail"))

	status, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, status.Status)
	assert.Equal(t, 40, status.Progress)
	assert.Equal(t, "fetching sent mail", status.Message)
	assert.Equal(t, "owner@x.com", status.Email)
}

func TestStoreComplete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "abc123", "owner@x.com")
	require.NoError(t, err)

	report := &signal.Report{UserEmail: "owner@x.com", QualityScore: 0.7}
	require.NoError(t, store.Complete(ctx, "abc123", report))

	status, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status.Status)
	assert.Equal(t, 100, status.Progress)
	require.NotNil(t, status.Result)
	assert.Equal(t, 0.7, status.Result.QualityScore)
}

func TestStoreFail(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "abc123", "owner@x.com")
	require.NoError(t, err)

	require.NoError(t, store.Fail(ctx, "abc123", "gmail fetch timed out"))

	status, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, status.Status)
	assert.Equal(t, "gmail fetch timed out", status.Error)
}

func TestStoreNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Update(context.Background(), "nope", StatusProcessing, 1, ""), ErrNotFound)
}

func TestStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "abc123", "owner@x.com")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, "abc123")
	assert.ErrorIs(t, err, ErrNotFound)
}
