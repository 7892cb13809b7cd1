package store

import (
	"context"

	"github.com/buildmart-as/inventory-api/internal/domain"
)

// AuditFilter narrows an audit log listing. Zero values match everything.
type AuditFilter struct {
	User       string
	Action     domain.AuditAction
	EntityType string
	Limit      int
}

// AuditLogs returns audit entries newest first, filtered and limited
func (s *Store) AuditLogs(filter AuditFilter) []domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := filter.Limit
	if limit <= 0 || limit > maxAuditEntries {
		limit = maxAuditEntries
	}

	var out []domain.AuditLog
	for _, a := range s.auditLogs {
		if filter.User != "" && a.UserName != filter.User {
			continue
		}
		if filter.Action != "" && a.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && a.EntityType != filter.EntityType {
			continue
		}
		out = append(out, *a)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// RecordAPIAudit lets the HTTP audit middleware record a request-level
// entry with transport metadata the store does not otherwise see
func (s *Store) RecordAPIAudit(ctx context.Context, user string, action domain.AuditAction, entityType, detail, ip, requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &domain.AuditLog{
		ID:          s.idFunc(),
		UserName:    user,
		Action:      action,
		EntityType:  entityType,
		Detail:      detail,
		IPAddress:   ip,
		RequestID:   requestID,
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
