package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulstats/collector/pkg/storage"
)

func TestGetMissingKey(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	var out []string
	found, err := s.Get(context.Background(), storage.KeyPendingIDs, &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, out)
}

func TestSetThenGet(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ids := []string{"220101-aaaa", "220102-bbbb"}
	require.NoError(t, s.Set(ctx, storage.KeyPendingIDs, ids))

	var out []string
	found, err := s.Get(ctx, storage.KeyPendingIDs, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ids, out)
}

func TestDayBucketKeyCreatesSubdirectory(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	bucket := map[string]struct{ UUID string }{"220101-aaaa": {UUID: "220101-aaaa"}}
	require.NoError(t, s.Set(ctx, storage.DayBucketKey("220101"), bucket))

	var out map[string]struct{ UUID string }
	found, err := s.Get(ctx, storage.DayBucketKey("220101"), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, out, "220101-aaaa")
}

func TestOverwrite(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "live.json", []string{"a"}))
	require.NoError(t, s.Set(ctx, "live.json", []string{"b", "c"}))

	var out []string
	found, err := s.Get(ctx, "live.json", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"b", "c"}, out)
}

func TestRejectsEscapingKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, s.Set(ctx, "../outside.json", "x"))

	var out string
	_, err = s.Get(ctx, "/etc/passwd", &out)
	assert.Error(t, err)
}
