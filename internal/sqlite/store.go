// Package sqlite implements the relational Store backend on SQLite via the
// pure-Go modernc.org/sqlite driver. A recipe maps to one row; the
// ingredient and instruction lists are serialized as JSON text columns and
// nutrition is flattened to two columns. Single-statement operations rely
// on SQLite's own atomicity; multi-statement ones run in a transaction,
// with the caller's context propagated into each query.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/larderhq/larder/pkg/types"
)

// Compile-time interface check: Store must implement types.Store.
var _ types.Store = (*Store)(nil)

// Store is the SQLite-backed recipe store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file at path and ensures the schema
// exists. Schema creation is idempotent; an existing file keeps its rows.
// Failure here is fatal to service startup.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, &types.StorageError{Backend: types.BackendSQL, Op: "open", Err: types.ErrDBPathEmpty}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &types.StorageError{Backend: types.BackendSQL, Op: "open", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &types.StorageError{Backend: types.BackendSQL, Op: "open", Err: err}
	}
	if _, err := db.ExecContext(ctx, createRecipes); err != nil {
		db.Close()
		return nil, &types.StorageError{
			Backend: types.BackendSQL, Op: "open",
			Err: fmt.Errorf("creating schema: %w", err),
		}
	}
	return &Store{db: db}, nil
}

// Create inserts a new row. An empty ID gets a fresh UUID; a supplied ID
// that already has a row fails with ErrAlreadyExists. Duplicate detection
// is the primary key itself, so two racing creates with the same ID can
// never both succeed: the loser's constraint violation is translated here.
func (s *Store) Create(ctx context.Context, r types.Recipe) (types.Recipe, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	ingredients, instructions, err := marshalLists(r)
	if err != nil {
		return types.Recipe{}, &types.StorageError{Backend: types.BackendSQL, Op: "create", Err: err}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recipes (id, name, date_published, description, rating,
			prep_time, cook_time, ingredients, instructions, serving_size, calories)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.DatePublished, r.Description, ratingValue(r.Rating),
		r.PrepTime, r.CookTime, ingredients, instructions,
		r.Nutrition.ServingSize, r.Nutrition.Calories,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Recipe{}, types.ErrAlreadyExists
		}
		return types.Recipe{}, &types.StorageError{Backend: types.BackendSQL, Op: "create", Err: err}
	}
	return r, nil
}

// isUniqueViolation reports whether err is a primary-key or unique
// constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// Get returns the recipe row with the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.Recipe, error) {
	if id == "" {
		return types.Recipe{}, types.ErrInvalidID
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, date_published, description, rating, prep_time,
			cook_time, ingredients, instructions, serving_size, calories
		FROM recipes WHERE id = ?`, id)

	r, err := scanRecipe(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Recipe{}, types.ErrNotFound
		}
		return types.Recipe{}, &types.StorageError{Backend: types.BackendSQL, Op: "get", Err: err}
	}
	return r, nil
}

// List returns every recipe row, ordered ascending by ID.
func (s *Store) List(ctx context.Context) ([]types.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, date_published, description, rating, prep_time,
			cook_time, ingredients, instructions, serving_size, calories
		FROM recipes ORDER BY id ASC`)
	if err != nil {
		return nil, &types.StorageError{Backend: types.BackendSQL, Op: "list", Err: err}
	}
	defer rows.Close()

	out := []types.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, &types.StorageError{Backend: types.BackendSQL, Op: "list", Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.StorageError{Backend: types.BackendSQL, Op: "list", Err: err}
	}
	return out, nil
}

// Update replaces the row stored under id. The stored ID is kept.
func (s *Store) Update(ctx context.Context, id string, r types.Recipe) (types.Recipe, error) {
	if id == "" {
		return types.Recipe{}, types.ErrInvalidID
	}

	ingredients, instructions, err := marshalLists(r)
	if err != nil {
		return types.Recipe{}, &types.StorageError{Backend: types.BackendSQL, Op: "update", Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Recipe{}, &types.StorageError{Backend: types.BackendSQL, Op: "update", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE recipes SET name = ?, date_published = ?, description = ?,
			rating = ?, prep_time = ?, cook_time = ?, ingredients = ?,
			instructions = ?, serving_size = ?, calories = ?
		WHERE id = ?`,
		r.Name, r.DatePublished, r.Description, ratingValue(r.Rating),
		r.PrepTime, r.CookTime, ingredients, instructions,
		r.Nutrition.ServingSize, r.Nutrition.Calories, id,
	)
	if err != nil {
		return types.Recipe{}, &types.StorageError{Backend: types.BackendSQL, Op: "update", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return types.Recipe{}, &types.StorageError{Backend: types.BackendSQL, Op: "update", Err: err}
	}
	if n == 0 {
		return types.Recipe{}, types.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return types.Recipe{}, &types.StorageError{Backend: types.BackendSQL, Op: "update", Err: err}
	}

	r.ID = id
	return r, nil
}

// Delete removes the row with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return &types.StorageError{Backend: types.BackendSQL, Op: "delete", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &types.StorageError{Backend: types.BackendSQL, Op: "delete", Err: err}
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Purge removes every row.
func (s *Store) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM recipes"); err != nil {
		return &types.StorageError{Backend: types.BackendSQL, Op: "purge", Err: err}
	}
	return nil
}

// Close closes the database handle. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// ratingValue maps the optional rating to its nullable column value.
func ratingValue(r *float64) any {
	if r == nil {
		return nil
	}
	return *r
}

// marshalLists serializes the ingredient and instruction lists to their
// JSON text columns.
func marshalLists(r types.Recipe) (string, string, error) {
	ingredients, err := json.Marshal(r.Ingredients)
	if err != nil {
		return "", "", fmt.Errorf("marshaling ingredients: %w", err)
	}
	instructions, err := json.Marshal(r.Instructions)
	if err != nil {
		return "", "", fmt.Errorf("marshaling instructions: %w", err)
	}
	return string(ingredients), string(instructions), nil
}

// scanRecipe hydrates one row into a Recipe. scan is row.Scan or rows.Scan.
func scanRecipe(scan func(dest ...any) error) (types.Recipe, error) {
	var (
		r            types.Recipe
		rating       sql.NullFloat64
		ingredients  string
		instructions string
	)
	err := scan(&r.ID, &r.Name, &r.DatePublished, &r.Description, &rating,
		&r.PrepTime, &r.CookTime, &ingredients, &instructions,
		&r.Nutrition.ServingSize, &r.Nutrition.Calories)
	if err != nil {
		return types.Recipe{}, err
	}
	if rating.Valid {
		r.Rating = &rating.Float64
	}
	if err := json.Unmarshal([]byte(ingredients), &r.Ingredients); err != nil {
		return types.Recipe{}, fmt.Errorf("parsing ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(instructions), &r.Instructions); err != nil {
		return types.Recipe{}, fmt.Errorf("parsing instructions: %w", err)
	}
	return r, nil
}
