package progress

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "progress.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMarkAndReadCompletions(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.MarkCompleted(ctx, "welcome", "session-1"))
	require.NoError(t, store.MarkCompleted(ctx, "case-study", "session-1"))

	completed, err := store.Completions(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 2)

	c, ok := completed["welcome"]
	require.True(t, ok)
	require.Equal(t, "session-1", c.SessionID)
	require.WithinDuration(t, time.Now().UTC(), c.CompletedAt, time.Minute)
}

func TestMarkCompletedReplacesEarlierRecord(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.MarkCompleted(ctx, "welcome", "session-1"))
	require.NoError(t, store.MarkCompleted(ctx, "welcome", "session-2"))

	completed, err := store.Completions(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, "session-2", completed["welcome"].SessionID)
}

func TestMarkCompletedRejectsEmptyScene(t *testing.T) {
	store := openTestStore(t)
	err := store.MarkCompleted(context.Background(), "", "session-1")
	require.ErrorIs(t, err, ErrInvalidScene)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.MarkCompleted(ctx, "welcome", "session-1"))
	require.NoError(t, store.Reset(ctx))

	completed, err := store.Completions(ctx)
	require.NoError(t, err)
	require.Empty(t, completed)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.MarkCompleted(ctx, "welcome", "session-1"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	completed, err := reopened.Completions(ctx)
	require.NoError(t, err)
	require.Contains(t, completed, "welcome")
}
