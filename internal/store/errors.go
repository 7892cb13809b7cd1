package store

import "errors"

// Sentinel errors returned by store operations. The HTTP layer maps these
// onto status codes; nothing here carries transport concerns.
var (
	// ErrNotFound is returned when an operation references an id that does
	// not exist in the collection. Order-line stock adjustments are the one
	// exception: a stale product reference there is tolerated as a no-op.
	ErrNotFound = errors.New("entity not found")

	// ErrSameStatus is returned when a status transition targets the state
	// the entity is already in. Callers treat it as a silent no-op.
	ErrSameStatus = errors.New("status unchanged")

	// ErrCategoryExists is returned when adding a category whose name is taken
	ErrCategoryExists = errors.New("category already exists")

	// ErrProtectedCategory is returned when deleting or renaming the
	// Uncategorized sentinel
	ErrProtectedCategory = errors.New("category is protected")

	// ErrDuplicateUsername is returned when a username is already taken
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserBlocked is returned when a blocked user attempts to log in
	ErrUserBlocked = errors.New("user is blocked")

	// ErrGatePassExited is returned when clearing a pass that already exited
	ErrGatePassExited = errors.New("gate pass already exited")
)
