package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/buildmart-as/inventory-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QueuedAction is one durable action record awaiting replay against the
// remote system. Seq is assigned by the database and defines FIFO order.
type QueuedAction struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement" json:"seq"`
	Type      string    `gorm:"size:64;not null;index" json:"type"`
	Payload   []byte    `gorm:"not null" json:"payload"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (QueuedAction) TableName() string { return "action_queue" }

// Action decodes the queued record back into a domain action
func (q *QueuedAction) Action() (domain.Action, error) {
	if !json.Valid(q.Payload) {
		return domain.Action{}, fmt.Errorf("corrupt payload in queued action %d", q.Seq)
	}
	return domain.Action{
		Type:      domain.ActionType(q.Type),
		Payload:   json.RawMessage(q.Payload),
		CreatedAt: q.CreatedAt,
	}, nil
}

// Queue is the durable offline action queue. Every local mutation appends
// exactly one action; a background job later replays them in order.
// Persistence goes through the same cache database as the snapshot store,
// so the queue survives restarts.
type Queue struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates a queue on top of an open cache database
func New(db *gorm.DB, logger *zap.Logger) *Queue {
	return &Queue{db: db, logger: logger}
}

// Initialize creates the queue table if missing. Idempotent.
func (q *Queue) Initialize(ctx context.Context) error {
	if err := q.db.WithContext(ctx).AutoMigrate(&QueuedAction{}); err != nil {
		return fmt.Errorf("failed to create action queue table: %w", err)
	}
	return nil
}

// Enqueue appends an action to the tail of the queue
func (q *Queue) Enqueue(ctx context.Context, action domain.Action) error {
	var payload []byte
	if action.Payload == nil {
		payload = []byte("{}")
	} else {
		var err error
		payload, err = json.Marshal(action.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode action %s payload: %w", action.Type, err)
		}
	}
	record := QueuedAction{
		Type:    string(action.Type),
		Payload: payload,
	}
	if err := q.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to enqueue action %s: %w", action.Type, err)
	}
	q.logger.Debug("Action enqueued",
		zap.String("action_type", string(action.Type)),
		zap.Uint64("seq", record.Seq),
	)
	return nil
}

// All returns every queued action in FIFO order
func (q *Queue) All(ctx context.Context) ([]QueuedAction, error) {
	var records []QueuedAction
	if err := q.db.WithContext(ctx).Order("seq").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read action queue: %w", err)
	}
	return records, nil
}

// Remove deletes one replayed action by sequence number
func (q *Queue) Remove(ctx context.Context, seq uint64) error {
	if err := q.db.WithContext(ctx).Delete(&QueuedAction{}, "seq = ?", seq).Error; err != nil {
		return fmt.Errorf("failed to remove queued action %d: %w", seq, err)
	}
	return nil
}

// Len returns the number of pending actions
func (q *Queue) Len(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.WithContext(ctx).Model(&QueuedAction{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count action queue: %w", err)
	}
	return n, nil
}

// Clear discards every pending action
func (q *Queue) Clear(ctx context.Context) error {
	if err := q.db.WithContext(ctx).Where("1 = 1").Delete(&QueuedAction{}).Error; err != nil {
		return fmt.Errorf("failed to clear action queue: %w", err)
	}
	q.logger.Info("Action queue cleared")
	return nil
}
