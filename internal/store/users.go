package store

import (
	"context"
	"time"

	"github.com/buildmart-as/inventory-api/internal/cache"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cachedUser is the snapshot shape for users. The domain model excludes
// the password from JSON, but the local cache has to round-trip it or
// nobody could log in after a restart.
type cachedUser struct {
	ID          uuid.UUID         `json:"id"`
	Username    string            `json:"username"`
	Password    string            `json:"password"`
	DisplayName string            `json:"displayName"`
	Roles       []domain.UserRole `json:"roles"`
	Status      domain.UserStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Users returns a snapshot of the user collection, newest first. Passwords
// never serialize; the domain model hides them from JSON.
func (s *Store) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.User, len(s.users))
	for i, u := range s.users {
		out[i] = *u
	}
	return out
}

// User returns one user by id
func (s *Store) User(id uuid.UUID) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(id)
	if u == nil {
		return domain.User{}, ErrNotFound
	}
	return *u, nil
}

// findUser must be called with the lock held
func (s *Store) findUser(id uuid.UUID) *domain.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// findUserByUsername must be called with the lock held
func (s *Store) findUserByUsername(username string) *domain.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

// Authenticate verifies a username/password pair and returns the user.
// Passwords are compared in plaintext; this carries over the credential
// model of the system being replaced (see DESIGN.md).
func (s *Store) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findUserByUsername(username)
	if user == nil || user.Password != password {
		return domain.User{}, ErrInvalidCredentials
	}
	if user.Status == domain.UserStatusBlocked {
		return domain.User{}, ErrUserBlocked
	}

	s.recordAudit(ctx, user.Username, domain.AuditActionLogin, "user", &user.ID, "login")
	return *user, nil
}

// AddUser creates a user in Active status
func (s *Store) AddUser(ctx context.Context, req domain.CreateUserRequest, actingUser string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUserByUsername(req.Username) != nil {
		return domain.User{}, ErrDuplicateUsername
	}

	now := s.nowFunc()
	user := &domain.User{
		ID:          s.idFunc(),
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Roles:       req.Roles,
		Status:      domain.UserStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.users = append([]*domain.User{user}, s.users...)
	s.persistUsers(ctx)

	s.emit(ctx, domain.ActionAddUser, user)
	s.recordAudit(ctx, actingUser, domain.AuditActionCreate, "user", &user.ID, user.Username)

	s.logger.Info("User added",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return *user, nil
}

// UpdateUser replaces a user's display name, roles and status. An empty
// password in the request leaves the current one in place.
func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, req domain.UpdateUserRequest, actingUser string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findUser(id)
	if user == nil {
		return domain.User{}, ErrNotFound
	}

	user.DisplayName = req.DisplayName
	user.Roles = req.Roles
	user.Status = req.Status
	if req.Password != "" {
		user.Password = req.Password
	}
	user.UpdatedAt = s.nowFunc()

	s.persistUsers(ctx)
	s.emit(ctx, domain.ActionUpdateUser, user)
	s.recordAudit(ctx, actingUser, domain.AuditActionUpdate, "user", &user.ID, user.Username)

	return *user, nil
}

// DeleteUser removes a user
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID, actingUser string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.users[:0]
	for _, u := range s.users {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return ErrNotFound
	}
	s.users = kept

	s.persistUsers(ctx)
	s.emit(ctx, domain.ActionDeleteUser, map[string]any{"id": id})
	s.recordAudit(ctx, actingUser, domain.AuditActionDelete, "user", &id, "user deleted")

	return nil
}

func (s *Store) persistUsers(ctx context.Context) {
	records := make([]cache.Record, 0, len(s.users))
	for _, u := range s.users {
		// Users are the one collection whose snapshot must keep the
		// password; marshal a shadow struct instead of the JSON-hidden model.
		if r, ok := s.snapshotRecord(u.ID.String(), cachedUser{
			ID:          u.ID,
			Username:    u.Username,
			Password:    u.Password,
			DisplayName: u.DisplayName,
			Roles:       u.Roles,
			Status:      u.Status,
			CreatedAt:   u.CreatedAt,
			UpdatedAt:   u.UpdatedAt,
		}); ok {
			records = append(records, r)
		}
	}
	s.writeThrough(ctx, cache.TableUsers, records)
}
