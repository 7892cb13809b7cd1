package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/buildmart-as/inventory-api/internal/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatch delivers one action to the remote system. A nil Dispatch means
// remote sync is disabled and every action goes straight to the queue.
type Dispatch func(ctx context.Context, action domain.Action) error

// Defaults seed the settings collection on first run
type Defaults struct {
	LowStockThreshold int
	DefaultCurrency   string
}

// maxAuditEntries bounds the in-memory audit collection; the oldest
// entries are dropped past this point.
const maxAuditEntries = 2000

// Store is the authoritative state manager. All entity collections live in
// memory and every mutation runs under one mutex, so each operation runs to
// completion (including its cache write-through) before the next starts.
// The cache is a passive mirror: it is written on every mutation and read
// only once, at startup.
//
// Collections are ordered newest first; new entities are inserted at the
// head.
type Store struct {
	mu       sync.Mutex
	logger   *zap.Logger
	cache    *cache.Store
	queue    *queue.Queue
	dispatch Dispatch
	defaults Defaults

	idFunc  func() uuid.UUID
	nowFunc func() time.Time

	products       []*domain.Product
	categories     []*domain.Category
	salesOrders    []*domain.SalesOrder
	purchaseOrders []*domain.PurchaseOrder
	suppliers      []*domain.Supplier
	users          []*domain.User
	gatePasses     []*domain.GatePass
	reminders      []*domain.Reminder
	packingSlips   []*domain.PackingSlip
	shippingLabels []*domain.ShippingLabel
	auditLogs      []*domain.AuditLog
	settings       domain.Settings
}

// Option configures optional store behavior
type Option func(*Store)

// WithIDFunc overrides id generation, mainly for deterministic tests
func WithIDFunc(f func() uuid.UUID) Option {
	return func(s *Store) { s.idFunc = f }
}

// WithNowFunc overrides the clock, mainly for deterministic tests
func WithNowFunc(f func() time.Time) Option {
	return func(s *Store) { s.nowFunc = f }
}

// WithDispatch sets the immediate-dispatch path used when the action queue
// is empty. Failures fall back to the queue.
func WithDispatch(d Dispatch) Option {
	return func(s *Store) { s.dispatch = d }
}

// WithDefaults sets the first-run settings values
func WithDefaults(d Defaults) Option {
	return func(s *Store) { s.defaults = d }
}

// New creates a state manager on top of the snapshot cache and the offline
// action queue. Call Load before serving traffic.
func New(cacheStore *cache.Store, q *queue.Queue, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		logger:  logger,
		cache:   cacheStore,
		queue:   q,
		idFunc:  uuid.New,
		nowFunc: func() time.Time { return time.Now().UTC() },
		defaults: Defaults{
			LowStockThreshold: 1000,
			DefaultCurrency:   "NOK",
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// historyEntry builds one audit record for an entity history list
func (s *Store) historyEntry(action, user string) domain.HistoryEntry {
	return domain.HistoryEntry{
		Timestamp: s.nowFunc(),
		Action:    action,
		User:      user,
	}
}

// prependHistory inserts an entry at the head; histories are newest first
// and never mutated in place
func prependHistory(h []domain.HistoryEntry, e domain.HistoryEntry) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(h)+1)
	out = append(out, e)
	return append(out, h...)
}

// writeThrough mirrors one collection snapshot into the cache. Failures are
// logged and never roll back the in-memory mutation; memory stays
// authoritative and the next successful write-through reconverges.
func (s *Store) writeThrough(ctx context.Context, table string, records []cache.Record) {
	if err := s.cache.ReplaceAll(ctx, table, records); err != nil {
		s.logger.Error("Cache write-through failed",
			zap.String("table", table),
			zap.Error(err),
		)
	}
}

// snapshotRecord marshals one entity into a cache record
func (s *Store) snapshotRecord(id string, entity any) (cache.Record, bool) {
	payload, err := json.Marshal(entity)
	if err != nil {
		s.logger.Error("Failed to encode entity for cache",
			zap.String("entity_id", id),
			zap.Error(err),
		)
		return cache.Record{}, false
	}
	return cache.Record{ID: id, Payload: payload}, true
}

// emit produces the single action record every mutation owes the sync
// contract. When a dispatcher is set and nothing is already queued the
// action is sent immediately; otherwise it is appended to the durable
// queue so replay order is preserved.
func (s *Store) emit(ctx context.Context, actionType domain.ActionType, payload any) {
	action := domain.Action{
		Type:      actionType,
		Payload:   payload,
		CreatedAt: s.nowFunc(),
	}

	if s.dispatch != nil {
		pending, err := s.queue.Len(ctx)
		if err == nil && pending == 0 {
			if err := s.dispatch(ctx, action); err == nil {
				return
			} else {
				s.logger.Warn("Immediate dispatch failed, queueing action",
					zap.String("action_type", string(actionType)),
					zap.Error(err),
				)
			}
		}
	}

	if err := s.queue.Enqueue(ctx, action); err != nil {
		s.logger.Error("Failed to enqueue action",
			zap.String("action_type", string(actionType)),
			zap.Error(err),
		)
	}
}

// recordAudit appends one audit entry and mirrors the audit table. Must be
// called with the store lock held.
func (s *Store) recordAudit(ctx context.Context, user string, action domain.AuditAction, entityType string, entityID *uuid.UUID, detail string) {
	entry := &domain.AuditLog{
		ID:          s.idFunc(),
		UserName:    user,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Detail:      detail,
		PerformedAt: s.nowFunc(),
	}

	logs := make([]*domain.AuditLog, 0, len(s.auditLogs)+1)
	logs = append(logs, entry)
	logs = append(logs, s.auditLogs...)
	if len(logs) > maxAuditEntries {
		logs = logs[:maxAuditEntries]
	}
	s.auditLogs = logs

	s.persistAuditLogs(ctx)
}

func (s *Store) persistAuditLogs(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.auditLogs))
	for _, a := range s.auditLogs {
		if r, ok := s.snapshotRecord(a.ID.String(), a); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TableAuditLogs, records)
}

// PendingActions returns the number of queued actions awaiting replay
func (s *Store) PendingActions(ctx context.Context) (int64, error) {
	return s.queue.Len(ctx)
}
