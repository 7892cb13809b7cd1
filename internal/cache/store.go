package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SchemaVersion is the current snapshot-store schema version. Upgrades are
// strictly additive: a newer version only introduces tables, it never
// alters or drops rows written by an older one.
const SchemaVersion = 3

// Record is one cached entity snapshot. The payload is the JSON-encoded
// entity; the cache never interprets it. Collections that are replaced
// wholesale (settings, singletons) use a fixed well-known ID. The key is
// wide enough for the longest natural id in use, a 100-char category name.
type Record struct {
	ID        string    `gorm:"primaryKey;size:128"`
	Payload   []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// metaRow stores schema bookkeeping, keyed by name
type metaRow struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string `gorm:"not null"`
}

func (metaRow) TableName() string { return "cache_meta" }

const schemaVersionKey = "schema_version"

// tablesByVersion lists the entity tables introduced at each schema
// version. Initialize creates every table at or below SchemaVersion, so
// upgrading an old cache file only adds the missing ones.
var tablesByVersion = map[int][]string{
	1: {
		TableProducts,
		TableCategories,
		TableSalesOrders,
		TablePurchaseOrders,
		TableSuppliers,
		TableUsers,
		TableSettings,
		TableAuditLogs,
	},
	2: {
		TableGatePasses,
		TableReminders,
	},
	3: {
		TablePackingSlips,
		TableShippingLabels,
	},
}

// Entity table names. The offline action queue lives in its own table
// managed by the queue package, not here.
const (
	TableProducts       = "products"
	TableCategories     = "categories"
	TableSalesOrders    = "sales_orders"
	TablePurchaseOrders = "purchase_orders"
	TableSuppliers      = "suppliers"
	TableUsers          = "users"
	TableSettings       = "settings"
	TableAuditLogs      = "audit_logs"
	TableGatePasses     = "gate_passes"
	TableReminders      = "reminders"
	TablePackingSlips   = "packing_slips"
	TableShippingLabels = "shipping_labels"
)

// Tables returns every entity table the current schema version knows about
func Tables() []string {
	var out []string
	for v := 1; v <= SchemaVersion; v++ {
		out = append(out, tablesByVersion[v]...)
	}
	return out
}

// Store is the local snapshot store. It persists one table per entity
// collection and answers full-table reads and writes; all filtering and
// derivation happens in memory, in the state manager.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a snapshot store on top of an open cache database
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Initialize creates any missing entity tables and records the schema
// version. It is idempotent: calling it against an up-to-date cache is a
// no-op, and calling it against a cache written by an older version only
// adds the tables that version lacked.
func (s *Store) Initialize(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	if err := db.AutoMigrate(&metaRow{}); err != nil {
		return fmt.Errorf("failed to create cache meta table: %w", err)
	}

	stored, err := s.storedVersion(ctx)
	if err != nil {
		return err
	}
	if stored > SchemaVersion {
		return fmt.Errorf("cache schema version %d is newer than supported version %d", stored, SchemaVersion)
	}

	for v := stored + 1; v <= SchemaVersion; v++ {
		for _, table := range tablesByVersion[v] {
			if err := db.Table(table).AutoMigrate(&Record{}); err != nil {
				return fmt.Errorf("failed to create cache table %s: %w", table, err)
			}
		}
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&metaRow{Key: schemaVersionKey, Value: strconv.Itoa(SchemaVersion)}).Error; err != nil {
		return fmt.Errorf("failed to record cache schema version: %w", err)
	}

	if stored != SchemaVersion {
		s.logger.Info("Cache schema initialized",
			zap.Int("from_version", stored),
			zap.Int("to_version", SchemaVersion),
		)
	}
	return nil
}

func (s *Store) storedVersion(ctx context.Context) (int, error) {
	var row metaRow
	err := s.db.WithContext(ctx).First(&row, "key = ?", schemaVersionKey).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache schema version: %w", err)
	}
	v, err := strconv.Atoi(row.Value)
	if err != nil {
		return 0, fmt.Errorf("corrupt cache schema version %q: %w", row.Value, err)
	}
	return v, nil
}

// ReplaceAll atomically replaces the full contents of an entity table with
// the given records. The delete and insert run in one transaction so a
// crash never leaves a half-written snapshot.
func (s *Store) ReplaceAll(ctx context.Context, table string, records []Record) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).Where("1 = 1").Delete(&Record{}).Error; err != nil {
			return fmt.Errorf("failed to clear cache table %s: %w", table, err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Table(table).CreateInBatches(records, 200).Error; err != nil {
			return fmt.Errorf("failed to write cache table %s: %w", table, err)
		}
		return nil
	})
}

// LoadAll reads the full contents of an entity table. A table that exists
// but holds no rows returns an empty slice, not an error.
func (s *Store) LoadAll(ctx context.Context, table string) ([]Record, error) {
	var records []Record
	if err := s.db.WithContext(ctx).Table(table).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load cache table %s: %w", table, err)
	}
	return records, nil
}

// Count returns the number of cached records in a table
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count cache table %s: %w", table, err)
	}
	return n, nil
}

// HealthCheck verifies the cache database is reachable
func (s *Store) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
