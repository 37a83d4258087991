// Package service is the layer between transport and storage: it decodes
// and validates recipe payloads, delegates to the configured Store, and
// keeps the storage error taxonomy intact for the transport to map onto
// API codes.
package service

import (
	"context"

	"github.com/larderhq/larder/pkg/types"
)

// Service validates payloads and delegates CRUD operations to a Store.
type Service struct {
	store types.Store
}

// New returns a Service backed by the given store.
func New(store types.Store) *Service {
	return &Service{store: store}
}

// Create validates r and persists it. The payload must not carry an ID;
// the store assigns one. Returns the stored recipe including its ID.
func (s *Service) Create(ctx context.Context, r types.Recipe) (types.Recipe, error) {
	if r.ID != "" {
		return types.Recipe{}, &ValidationError{Fields: []string{"id: must not be supplied"}}
	}
	if err := validateRecipe(r); err != nil {
		return types.Recipe{}, err
	}
	return s.store.Create(ctx, r)
}

// Get returns the recipe with the given ID.
func (s *Service) Get(ctx context.Context, id string) (types.Recipe, error) {
	return s.store.Get(ctx, id)
}

// List returns all recipes.
func (s *Service) List(ctx context.Context) ([]types.Recipe, error) {
	return s.store.List(ctx)
}

// Update validates r and replaces the recipe stored under id. Full-replace
// semantics: every mutable field comes from r, nothing is preserved from
// the prior record.
func (s *Service) Update(ctx context.Context, id string, r types.Recipe) (types.Recipe, error) {
	if err := validateRecipe(r); err != nil {
		return types.Recipe{}, err
	}
	return s.store.Update(ctx, id, r)
}

// Delete removes the recipe with the given ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
