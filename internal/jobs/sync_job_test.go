package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/queue"
	"github.com/buildmart-as/inventory-api/internal/syncer"
)

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()
	logger := zap.NewNop()
	db, err := cache.NewDatabase(&config.CacheConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	q := queue.New(db, logger)
	require.NoError(t, q.Initialize(context.Background()))
	return q
}

func enqueueN(t *testing.T, q *queue.Queue, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, q.Enqueue(context.Background(), domain.Action{
			Type:      domain.ActionAddProduct,
			Payload:   map[string]int{"n": i},
			CreatedAt: time.Now().UTC(),
		}))
	}
}

func newSyncClient(baseURL string) *syncer.Client {
	return syncer.NewClient(&config.RemoteSyncConfig{
		BaseURL:        baseURL,
		RequestTimeout: 2,
	}, zap.NewNop())
}

func TestSyncJob_DrainPushesEverything(t *testing.T) {
	q := newTestQueue(t)
	enqueueN(t, q, 3)

	var pushed atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/actions" {
			pushed.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	job := NewSyncJob(q, newSyncClient(srv.URL), zap.NewNop(), time.Minute)

	n, err := job.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, int32(3), pushed.Load())

	remaining, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)
	assert.NotNil(t, job.LastDrainedAt())
}

func TestSyncJob_StopsAtFirstFailure(t *testing.T) {
	q := newTestQueue(t)
	enqueueN(t, q, 3)

	// Accept the first action, reject the rest
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/actions" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if calls.Add(1) > 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	job := NewSyncJob(q, newSyncClient(srv.URL), zap.NewNop(), time.Minute)

	n, err := job.Drain(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, n)

	// Only the accepted action left the queue; order is preserved for the
	// next run
	remaining, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)
	assert.Nil(t, job.LastDrainedAt())
}

func TestSyncJob_SkipsWhenOffline(t *testing.T) {
	q := newTestQueue(t)
	enqueueN(t, q, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	job := NewSyncJob(q, newSyncClient(srv.URL), zap.NewNop(), time.Minute)

	n, err := job.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	remaining, err := q.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)
}
