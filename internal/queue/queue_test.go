package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()

	db, err := cache.NewDatabase(&config.CacheConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	q := New(db, zap.NewNop())
	require.NoError(t, q.Initialize(context.Background()))
	return q
}

func TestEnqueue_PreservesFIFOOrder(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	for _, at := range []domain.ActionType{
		domain.ActionAddProduct,
		domain.ActionAdjustProductStock,
		domain.ActionAddSalesOrder,
	} {
		require.NoError(t, q.Enqueue(ctx, domain.Action{
			Type:    at,
			Payload: json.RawMessage(`{"id":"x"}`),
		}))
	}

	records, err := q.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, string(domain.ActionAddProduct), records[0].Type)
	assert.Equal(t, string(domain.ActionAdjustProductStock), records[1].Type)
	assert.Equal(t, string(domain.ActionAddSalesOrder), records[2].Type)
	assert.Less(t, records[0].Seq, records[1].Seq)
	assert.Less(t, records[1].Seq, records[2].Seq)
}

func TestRemove_DeletesSingleAction(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, domain.Action{Type: domain.ActionAddProduct}))
	require.NoError(t, q.Enqueue(ctx, domain.Action{Type: domain.ActionUpdateProduct}))

	records, err := q.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NoError(t, q.Remove(ctx, records[0].Seq))

	remaining, err := q.All(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, string(domain.ActionUpdateProduct), remaining[0].Type)
}

func TestClear_EmptiesQueue(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, domain.Action{Type: domain.ActionAddProduct}))
	require.NoError(t, q.Clear(ctx))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestQueuedAction_DecodesBackToDomainAction(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, domain.Action{
		Type:    domain.ActionAdjustProductStock,
		Payload: json.RawMessage(`{"productId":"p-1","delta":-700}`),
	}))

	records, err := q.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	action, err := records[0].Action()
	require.NoError(t, err)
	assert.Equal(t, domain.ActionAdjustProductStock, action.Type)
	assert.JSONEq(t, `{"productId":"p-1","delta":-700}`, string(action.Payload.(json.RawMessage)))
	assert.False(t, action.CreatedAt.IsZero())
}

func TestEnqueue_NilPayloadDefaultsToEmptyObject(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, domain.Action{Type: domain.ActionUpdateSettings}))

	records, err := q.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{}`, string(records[0].Payload))
}
