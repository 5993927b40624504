package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/soulstats/collector/internal/types"
	"github.com/soulstats/collector/pkg/codec"
	mock_gateway "github.com/soulstats/collector/pkg/gateway/mock"
	"github.com/soulstats/collector/pkg/repositories/record"
)

func urlRecordResponse(id, url string) []byte {
	return codec.MarshalResGameRecord(&codec.ResGameRecord{
		Head:    &codec.GameRecordHead{UUID: id},
		DataURL: url,
	})
}

func TestDownloadForbiddenIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	client := mock_gateway.NewMockClient(ctrl)
	client.EXPECT().Call(gomock.Any(), codec.MethodFetchGameRecord, gomock.Any()).
		Return(urlRecordResponse("220101-x", srv.URL), nil)

	var slept []time.Duration
	p := newTestPipeline(t, Config{
		Client:     client,
		Repository: record.NewMemoryRepository(),
		Sleep:      func(d time.Duration) { slept = append(slept, d) },
	})

	_, err := p.fetchRecord(context.Background(), "220101-x")
	require.Error(t, err)
	assert.True(t, types.IsIngestError(err, types.ErrPermanentDenial))
	assert.Equal(t, int32(1), hits.Load(), "a denial must not be retried")
	assert.NotContains(t, slept, retryInterval)
}

func TestDownloadRetriesTransientFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte{0xca, 0xfe})
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	client := mock_gateway.NewMockClient(ctrl)
	client.EXPECT().Call(gomock.Any(), codec.MethodFetchGameRecord, gomock.Any()).
		Return(urlRecordResponse("220101-x", srv.URL), nil)

	var slept []time.Duration
	p := newTestPipeline(t, Config{
		Client:     client,
		Repository: record.NewMemoryRepository(),
		Sleep:      func(d time.Duration) { slept = append(slept, d) },
	})

	rec, err := p.fetchRecord(context.Background(), "220101-x")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe}, rec.Data)
	assert.Equal(t, int32(2), hits.Load())
	assert.Contains(t, slept, retryInterval)
}

func TestDownloadRetriesExhaust(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	client := mock_gateway.NewMockClient(ctrl)
	client.EXPECT().Call(gomock.Any(), codec.MethodFetchGameRecord, gomock.Any()).
		Return(urlRecordResponse("220101-x", srv.URL), nil)

	p := newTestPipeline(t, Config{
		Client:     client,
		Repository: record.NewMemoryRepository(),
	})

	_, err := p.fetchRecord(context.Background(), "220101-x")
	require.Error(t, err)
	assert.True(t, types.IsIngestError(err, types.ErrRetryExhausted))
	assert.Equal(t, int32(retryAttempts), hits.Load())
}
