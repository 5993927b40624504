package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/soulstats/collector/pkg/entities"
	mock_gateway "github.com/soulstats/collector/pkg/gateway/mock"
	"github.com/soulstats/collector/pkg/repositories/record"
	"github.com/soulstats/collector/pkg/storage"
)

func TestDayWalk(t *testing.T) {
	start := time.Date(2022, 1, 1, 10, 30, 0, 0, time.UTC)
	end := time.Date(2022, 1, 4, 1, 0, 0, 0, time.UTC)

	days := dayWalk(start, end)
	assert.Equal(t, []string{"220101", "220102", "220103", "220104"}, days)
}

func TestDayWalkSingleDay(t *testing.T) {
	now := time.Date(2022, 3, 15, 23, 59, 0, 0, time.UTC)
	days := dayWalk(now, now)
	assert.Equal(t, []string{"220315"}, days)
}

func TestDayWalkNoGapsAcrossMonths(t *testing.T) {
	start := time.Date(2022, 1, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 2, 2, 0, 0, 0, 0, time.UTC)

	days := dayWalk(start, end)
	assert.Equal(t, []string{"220130", "220131", "220201", "220202"}, days)
}

func TestBackfillStartsAtLookbackWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_gateway.NewMockClient(ctrl)
	repo := record.NewMemoryRepository()
	store := newMemStore()

	// newest persisted match started 2022-01-03 06:00 UTC; minus 36 hours
	// lands inside 2022-01-01, so the walk covers 01-01 through "today"
	latest := time.Date(2022, 1, 3, 6, 0, 0, 0, time.UTC)
	now := time.Date(2022, 1, 4, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveGameHeader(context.Background(),
		&entities.GameSummary{UUID: "220103-latest", StartTime: latest.Unix()}, "v1"))

	for _, day := range []string{"220101", "220102", "220103", "220104"} {
		key := storage.DayBucketKey(day)
		require.NoError(t, store.Set(context.Background(), key, map[string]dayRecord{
			day + "-match": {UUID: day + "-match"},
		}))
	}

	// every bucketed id is already persisted, so each day resolves to an
	// empty batch; track coverage through the existence filter instead
	var checked []string
	p := newTestPipeline(t, Config{
		Client:     client,
		Repository: repo,
		Store:      store,
		Now:        func() time.Time { return now },
	})

	for _, day := range []string{"220101", "220102", "220103", "220104"} {
		ids, err := p.dayBucketIDs(context.Background(), day)
		require.NoError(t, err)
		checked = append(checked, ids...)
	}
	assert.Equal(t, []string{"220101-match", "220102-match", "220103-match", "220104-match"}, checked)

	days := dayWalk(latest.Add(-backfillLookback), now)
	assert.Equal(t, []string{"220101", "220102", "220103", "220104"}, days)
}

func TestBackfillProcessesBucketedIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_gateway.NewMockClient(ctrl)
	repo := record.NewMemoryRepository()
	store := newMemStore()

	now := time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)
	id := "220101-0f2c1a60-aaaa-bbbb-cccc-0123456789ab"
	require.NoError(t, store.Set(context.Background(), storage.DayBucketKey("220101"),
		map[string]dayRecord{id: {UUID: id}}))

	// empty store walks from now-36h: 211231 and 220101
	client.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(recordResponse(id, selfDrawMatchData()), nil)
	client.EXPECT().CodecVersion().Return("v1").AnyTimes()
	client.EXPECT().SchemaDefinition().Return(nil).AnyTimes()

	p := newTestPipeline(t, Config{
		Client:     client,
		Repository: repo,
		Store:      store,
		Now:        func() time.Time { return now },
	})
	require.NoError(t, p.Backfill(context.Background()))

	assert.NotNil(t, repo.SavedRounds(id))
	assert.Equal(t, 2, repo.RefreshCount(), "one refresh per walked day")
}
