package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulstats/collector/pkg/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStorage(t)

	var out []string
	found, err := s.Get(context.Background(), storage.KeyPendingIDs, &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, out)
}

func TestSetThenGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	ids := []string{"220101-aaaa", "220102-bbbb"}
	require.NoError(t, s.Set(ctx, storage.KeyPendingIDs, ids))

	var out []string
	found, err := s.Get(ctx, storage.KeyPendingIDs, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ids, out)
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	key := storage.DayBucketKey("220101")
	require.NoError(t, s.Set(ctx, key, map[string]string{"a": "1"}))
	require.NoError(t, s.Set(ctx, key, map[string]string{"b": "2"}))

	out := make(map[string]string)
	found, err := s.Get(ctx, key, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]string{"b": "2"}, out)
}

func TestDatabaseDirectoryCreated(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "nested", "blobs.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), storage.KeyLiveGames, []string{}))
}
