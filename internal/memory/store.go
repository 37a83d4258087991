// Package memory implements the in-process Store backend. Records live in a
// map guarded by a RWMutex; nothing survives a restart. Used by tests and
// ephemeral deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/larderhq/larder/pkg/types"
)

// Compile-time interface check: Store must implement types.Store.
var _ types.Store = (*Store)(nil)

// Store is a process-local map from recipe ID to Recipe.
type Store struct {
	mu      sync.RWMutex
	recipes map[string]types.Recipe
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{recipes: make(map[string]types.Recipe)}
}

// Create stores a new recipe. An empty ID gets a fresh UUID; a supplied ID
// that already exists fails with ErrAlreadyExists.
func (s *Store) Create(ctx context.Context, r types.Recipe) (types.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	} else if _, ok := s.recipes[r.ID]; ok {
		return types.Recipe{}, types.ErrAlreadyExists
	}

	s.recipes[r.ID] = r.Clone()
	return r, nil
}

// Get returns the recipe with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.Recipe, error) {
	if id == "" {
		return types.Recipe{}, types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return types.Recipe{}, types.ErrNotFound
	}
	return r.Clone(), nil
}

// List returns every recipe ordered ascending by ID.
func (s *Store) List(ctx context.Context) ([]types.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces the recipe stored under id. The stored ID is kept.
func (s *Store) Update(ctx context.Context, id string, r types.Recipe) (types.Recipe, error) {
	if id == "" {
		return types.Recipe{}, types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return types.Recipe{}, types.ErrNotFound
	}
	r.ID = id
	s.recipes[id] = r.Clone()
	return r, nil
}

// Delete removes the recipe with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return types.ErrNotFound
	}
	delete(s.recipes, id)
	return nil
}

// Purge removes every recipe.
func (s *Store) Purge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes = make(map[string]types.Recipe)
	return nil
}

// Close is a no-op; the memory backend holds no external resources.
func (s *Store) Close() error { return nil }
