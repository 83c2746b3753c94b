package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced by the core wraps exactly one of these.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrForbidden         = errors.New("access forbidden")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStorage           = errors.New("storage error")
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrStockItemNotFound  = fmt.Errorf("stock item %w", ErrNotFound)
	ErrAllocationNotFound = fmt.Errorf("allocation %w", ErrNotFound)

	ErrUserExists         = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrDuplicateUniqueNum = fmt.Errorf("%w: item with this unique number already exists", ErrConflict)
	ErrConcurrentUpdate   = fmt.Errorf("%w: record was modified concurrently", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
)

// Kind names, as rendered to API callers.
const (
	KindNotFound          = "not_found"
	KindInvalidInput      = "invalid_input"
	KindInsufficientStock = "insufficient_stock"
	KindForbidden         = "forbidden"
	KindUnauthenticated   = "unauthenticated"
	KindConflict          = "conflict"
	KindInvalidTransition = "invalid_transition"
	KindStorage           = "storage"
	KindInternal          = "internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrNotFound, KindNotFound},
	{ErrInvalidInput, KindInvalidInput},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrForbidden, KindForbidden},
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrConflict, KindConflict},
	{ErrStorage, KindStorage},
}

// Kind classifies err into one of the Kind* names. Unknown errors are internal.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// InvalidInput builds an ErrInvalidInput carrying a field-level message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// StorageError wraps a driver failure so that it classifies as ErrStorage
// while keeping the original cause reachable through errors.Is/As.
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
