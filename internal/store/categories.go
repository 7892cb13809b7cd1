package store

import (
	"context"
	"fmt"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
)

// Categories returns a snapshot of the category collection
func (s *Store) Categories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = *c
	}
	return out
}

// findCategory must be called with the lock held
func (s *Store) findCategory(name string) *domain.Category {
	for _, c := range s.categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddCategory registers a new category name
func (s *Store) AddCategory(ctx context.Context, name, user string) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findCategory(name) != nil {
		return domain.Category{}, ErrCategoryExists
	}

	category := &domain.Category{
		Name:      name,
		CreatedAt: s.nowFunc(),
	}
	s.categories = append([]*domain.Category{category}, s.categories...)

	s.persistCategories(ctx)
	s.emit(ctx, domain.ActionAddCategory, category)
	s.recordAudit(ctx, user, domain.AuditActionCreate, "category", nil, name)

	return *category, nil
}

// RenameCategory renames a category and re-tags every product carrying the
// old name. The Uncategorized sentinel cannot be renamed.
func (s *Store) RenameCategory(ctx context.Context, oldName, newName, user string) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oldName == domain.UncategorizedCategory {
		return domain.Category{}, ErrProtectedCategory
	}
	category := s.findCategory(oldName)
	if category == nil {
		return domain.Category{}, ErrNotFound
	}
	if s.findCategory(newName) != nil {
		return domain.Category{}, ErrCategoryExists
	}

	category.Name = newName
	touched := s.retagProducts(oldName, newName)

	s.persistCategories(ctx)
	if touched {
		s.persistProducts(ctx)
	}

	s.emit(ctx, domain.ActionRenameCategory, map[string]any{
		"oldName": oldName,
		"newName": newName,
	})
	s.recordAudit(ctx, user, domain.AuditActionUpdate, "category", nil,
		fmt.Sprintf("%s -> %s", oldName, newName))

	return *category, nil
}

// DeleteCategory removes a category and re-tags its products to the
// Uncategorized sentinel, which itself can never be deleted.
func (s *Store) DeleteCategory(ctx context.Context, name, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == domain.UncategorizedCategory {
		return ErrProtectedCategory
	}

	found := false
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.Name == name {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return ErrNotFound
	}
	s.categories = kept
	s.ensureUncategorized()

	touched := s.retagProducts(name, domain.UncategorizedCategory)

	s.persistCategories(ctx)
	if touched {
		s.persistProducts(ctx)
	}

	s.emit(ctx, domain.ActionDeleteCategory, map[string]any{"name": name})
	s.recordAudit(ctx, user, domain.AuditActionDelete, "category", nil, name)

	return nil
}

// retagProducts moves every product from one category to another. Must be
// called with the lock held; returns whether any product changed.
func (s *Store) retagProducts(from, to string) bool {
	touched := false
	for _, p := range s.products {
		if p.Category == from {
			p.Category = to
			p.UpdatedAt = s.nowFunc()
			touched = true
		}
	}
	return touched
}

// ensureUncategorized guarantees the sentinel category exists. Must be
// called with the lock held.
func (s *Store) ensureUncategorized() {
	if s.findCategory(domain.UncategorizedCategory) == nil {
		s.categories = append(s.categories, &domain.Category{
			Name:      domain.UncategorizedCategory,
			CreatedAt: s.nowFunc(),
		})
	}
}

func (s *Store) persistCategories(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.categories))
	for _, c := range s.categories {
		if r, ok := s.snapshotRecord(c.Name, c); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TableCategories, records)
}
