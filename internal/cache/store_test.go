package cache

import (
	"context"
	"testing"

	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewDatabase(&config.CacheConfig{
		Driver: "sqlite",
		Path:   ":memory:",
		// a single connection keeps the in-memory database alive
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	return NewStore(db, zap.NewNop())
}

func TestInitialize_CreatesAllTables(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Initialize(ctx))

	for _, table := range Tables() {
		n, err := store.Count(ctx, table)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, int64(0), n)
	}

	v, err := store.storedVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)
}

func TestInitialize_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Initialize(ctx))
	require.NoError(t, store.ReplaceAll(ctx, TableProducts, []Record{
		{ID: "p-1", Payload: []byte(`{"name":"Rebar"}`)},
	}))

	// Second Initialize must not touch existing rows
	require.NoError(t, store.Initialize(ctx))

	records, err := store.LoadAll(ctx, TableProducts)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p-1", records[0].ID)
}

func TestReplaceAll_ReplacesWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Initialize(ctx))

	require.NoError(t, store.ReplaceAll(ctx, TableProducts, []Record{
		{ID: "p-1", Payload: []byte(`{"stock":10}`)},
		{ID: "p-2", Payload: []byte(`{"stock":20}`)},
	}))

	require.NoError(t, store.ReplaceAll(ctx, TableProducts, []Record{
		{ID: "p-3", Payload: []byte(`{"stock":30}`)},
	}))

	records, err := store.LoadAll(ctx, TableProducts)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p-3", records[0].ID)
	assert.JSONEq(t, `{"stock":30}`, string(records[0].Payload))
}

func TestReplaceAll_EmptySliceClearsTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Initialize(ctx))

	require.NoError(t, store.ReplaceAll(ctx, TableSuppliers, []Record{
		{ID: "s-1", Payload: []byte(`{}`)},
	}))
	require.NoError(t, store.ReplaceAll(ctx, TableSuppliers, nil))

	records, err := store.LoadAll(ctx, TableSuppliers)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadAll_EmptyTableNotAnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Initialize(ctx))

	records, err := store.LoadAll(ctx, TableGatePasses)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInitialize_UpgradesFromOlderVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Simulate a cache written at schema version 1
	require.NoError(t, store.db.AutoMigrate(&metaRow{}))
	for _, table := range tablesByVersion[1] {
		require.NoError(t, store.db.Table(table).AutoMigrate(&Record{}))
	}
	require.NoError(t, store.db.Create(&metaRow{Key: schemaVersionKey, Value: "1"}).Error)
	require.NoError(t, store.db.Table(TableProducts).Create(&Record{
		ID: "p-1", Payload: []byte(`{}`),
	}).Error)

	require.NoError(t, store.Initialize(ctx))

	// Version 2 and 3 tables now exist, version 1 data survives
	_, err := store.Count(ctx, TableReminders)
	require.NoError(t, err)
	_, err = store.Count(ctx, TablePackingSlips)
	require.NoError(t, err)

	records, err := store.LoadAll(ctx, TableProducts)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	v, err := store.storedVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)
}

func TestHealthCheck(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.HealthCheck(context.Background()))
}
