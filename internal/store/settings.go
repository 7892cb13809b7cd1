package store

import (
	"context"
	"fmt"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"go.uber.org/zap"
)

// settingsRecordID is the fixed id of the singleton settings row
const settingsRecordID = "settings"

// Settings returns the current settings
func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings replaces the configurable knobs. Changing the low-stock
// threshold does not retroactively recompute product statuses; each
// product picks up the new threshold on its next stock-affecting mutation.
func (s *Store) UpdateSettings(ctx context.Context, req domain.UpdateSettingsRequest, user string) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.LowStockThreshold = req.LowStockThreshold
	if req.DefaultCurrency != "" {
		s.settings.DefaultCurrency = req.DefaultCurrency
	}
	s.settings.UpdatedAt = s.nowFunc()

	s.persistSettings(ctx)
	s.emit(ctx, domain.ActionUpdateSettings, s.settings)
	s.recordAudit(ctx, user, domain.AuditActionUpdate, "settings", nil,
		fmt.Sprintf("low stock threshold set to %d", req.LowStockThreshold))

	s.logger.Info("Settings updated",
		zap.Int("low_stock_threshold", s.settings.LowStockThreshold),
		zap.String("default_currency", s.settings.DefaultCurrency),
	)
	return s.settings, nil
}

func (s *Store) persistSettings(ctx context.Context) {
	if r, ok := s.snapshotRecord(settingsRecordID, s.settings); ok {
		s.writeThrough(ctx, cache.TableSettings, []cache.Record{r})
	}
}
