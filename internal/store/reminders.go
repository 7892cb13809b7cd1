package store

import (
	"context"
	"time"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/google/uuid"
)

// Reminders returns a snapshot of the reminder collection, newest first
func (s *Store) Reminders() []domain.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Reminder, len(s.reminders))
	for i, r := range s.reminders {
		out[i] = *r
	}
	return out
}

// findReminder must be called with the lock held
func (s *Store) findReminder(id uuid.UUID) *domain.Reminder {
	for _, r := range s.reminders {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// AddReminder creates a pending follow-up task tied to an order
func (s *Store) AddReminder(ctx context.Context, req domain.CreateReminderRequest, user string) (domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminder := &domain.Reminder{
		ID:        s.idFunc(),
		OrderID:   req.OrderID,
		Task:      req.Task,
		DueAt:     req.DueAt,
		Status:    domain.ReminderPending,
		CreatedAt: s.nowFunc(),
	}

	s.reminders = append([]*domain.Reminder{reminder}, s.reminders...)
	s.persistReminders(ctx)

	s.emit(ctx, domain.ActionAddReminder, reminder)
	s.recordAudit(ctx, user, domain.AuditActionCreate, "reminder", &reminder.ID, reminder.Task)

	return *reminder, nil
}

// CompleteReminder marks a reminder Completed
func (s *Store) CompleteReminder(ctx context.Context, id uuid.UUID, user string) (domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminder := s.findReminder(id)
	if reminder == nil {
		return domain.Reminder{}, ErrNotFound
	}
	if reminder.Status == domain.ReminderCompleted {
		return *reminder, ErrSameStatus
	}

	reminder.Status = domain.ReminderCompleted
	s.persistReminders(ctx)

	s.emit(ctx, domain.ActionReminderStatus, map[string]any{
		"id":     reminder.ID,
		"status": reminder.Status,
	})
	s.recordAudit(ctx, user, domain.AuditActionStatusChange, "reminder", &reminder.ID, "completed")

	return *reminder, nil
}

// DeleteReminder removes a reminder
func (s *Store) DeleteReminder(ctx context.Context, id uuid.UUID, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.reminders[:0]
	for _, r := range s.reminders {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return ErrNotFound
	}
	s.reminders = kept

	s.persistReminders(ctx)
	s.emit(ctx, domain.ActionDeleteReminder, map[string]any{"id": id})
	s.recordAudit(ctx, user, domain.AuditActionDelete, "reminder", &id, "reminder deleted")

	return nil
}

// OverdueReminders returns pending reminders whose due time has passed.
// Used by the reminder job; the job records the overdue set in the audit
// log rather than mutating the reminders.
func (s *Store) OverdueReminders(asOf time.Time) []domain.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Reminder
	for _, r := range s.reminders {
		if r.Status == domain.ReminderPending && r.DueAt.Before(asOf) {
			out = append(out, *r)
		}
	}
	return out
}

// RecordOverdueReminders writes one audit entry per overdue reminder so the
// dashboard's audit view surfaces them
func (s *Store) RecordOverdueReminders(ctx context.Context, reminders []domain.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range reminders {
		id := r.ID
		s.recordAudit(ctx, "system", domain.AuditActionUpdate, "reminder", &id,
			"reminder overdue: "+r.Task)
	}
}

func (s *Store) persistReminders(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.reminders))
	for _, r := range s.reminders {
		if rec, ok := s.snapshotRecord(r.ID.String(), r); ok {
			records = append(records, rec)
		}
	}
	s.writeThrough(ctx, cache.TableReminders, records)
}
