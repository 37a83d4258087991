package types

import (
	"context"
	"errors"
	"fmt"
)

// Store is the backend-agnostic CRUD contract for recipes. Every backend
// (memory, filesystem, sqlite) satisfies it with identical observable
// behavior: per-record atomicity, the same error values for the same
// conditions, and List ordered ascending by ID.
type Store interface {
	// Create persists a new recipe. When r.ID is empty a new UUID is
	// generated; a caller-supplied ID that already exists fails with
	// ErrAlreadyExists. Returns the stored recipe including its ID.
	Create(ctx context.Context, r Recipe) (Recipe, error)

	// Get retrieves the recipe with the given ID.
	// Returns ErrNotFound if no recipe exists with that ID.
	Get(ctx context.Context, id string) (Recipe, error)

	// List returns every recipe in the store, ordered ascending by ID.
	// An empty store yields an empty (non-nil) slice.
	List(ctx context.Context) ([]Recipe, error)

	// Update replaces the recipe stored under id with r. The stored ID is
	// kept; every other field comes from r. Returns ErrNotFound if id is
	// absent.
	Update(ctx context.Context, id string, r Recipe) (Recipe, error)

	// Delete removes the recipe with the given ID. Hard delete, no
	// tombstone. Returns ErrNotFound if id is absent.
	Delete(ctx context.Context, id string) error

	// Purge removes every recipe in the store.
	Purge(ctx context.Context) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Store operation errors.
var (
	ErrNotFound      = errors.New("recipe not found")
	ErrAlreadyExists = errors.New("recipe already exists")
	ErrInvalidID     = errors.New("invalid recipe ID")
)

// StorageError wraps a backend-level failure (disk I/O, database error).
// Backends never swallow such errors; they wrap them so callers can
// distinguish infrastructure failures from the sentinel conditions above.
type StorageError struct {
	Backend string // backend name: "memory", "fs", "sql"
	Op      string // failing operation: "create", "get", ...
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
