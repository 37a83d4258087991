// Package fsstore implements the filesystem Store backend. Each recipe is
// one <id>.json file under a root directory. Writes go through a temp file,
// fsync and rename so a crash mid-write never leaves a partial record, and
// a store-level mutex serializes check-then-write sequences between
// concurrent callers in the same process.
package fsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/larderhq/larder/pkg/types"
)

const recipeExt = ".json"

// Compile-time interface check: Store must implement types.Store.
var _ types.Store = (*Store)(nil)

// Store persists recipes as JSON documents under a root directory.
type Store struct {
	mu   sync.Mutex
	root string
}

// New creates the root directory if needed and verifies it is a writable
// directory. Construction failure is fatal to service startup.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, &types.StorageError{Backend: types.BackendFS, Op: "open", Err: types.ErrDataDirEmpty}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &types.StorageError{Backend: types.BackendFS, Op: "open", Err: err}
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, &types.StorageError{Backend: types.BackendFS, Op: "open", Err: err}
	}
	if !info.IsDir() {
		return nil, &types.StorageError{
			Backend: types.BackendFS, Op: "open",
			Err: fmt.Errorf("%s is not a directory", root),
		}
	}
	return &Store{root: root}, nil
}

// path returns the file name backing the given recipe ID.
func (s *Store) path(id string) string {
	return filepath.Join(s.root, id+recipeExt)
}

// invalidID reports whether id is empty or could name a file outside the
// root directory.
func invalidID(id string) bool {
	return id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`)
}

// Create writes a new recipe file. An empty ID gets a fresh UUID; a supplied
// ID whose file already exists fails with ErrAlreadyExists.
func (s *Store) Create(ctx context.Context, r types.Recipe) (types.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	} else if invalidID(r.ID) {
		return types.Recipe{}, types.ErrInvalidID
	} else if _, err := os.Stat(s.path(r.ID)); err == nil {
		return types.Recipe{}, types.ErrAlreadyExists
	} else if !os.IsNotExist(err) {
		return types.Recipe{}, &types.StorageError{Backend: types.BackendFS, Op: "create", Err: err}
	}

	if err := s.write(r); err != nil {
		return types.Recipe{}, &types.StorageError{Backend: types.BackendFS, Op: "create", Err: err}
	}
	return r, nil
}

// Get reads and parses the file for the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.Recipe, error) {
	if invalidID(id) {
		return types.Recipe{}, types.ErrInvalidID
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return types.Recipe{}, types.ErrNotFound
		}
		return types.Recipe{}, &types.StorageError{Backend: types.BackendFS, Op: "get", Err: err}
	}

	var r types.Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return types.Recipe{}, &types.StorageError{
			Backend: types.BackendFS, Op: "get",
			Err: fmt.Errorf("parsing %s%s: %w", id, recipeExt, err),
		}
	}
	return r, nil
}

// List reads every .json file under the root, ordered ascending by ID
// (directory entries sort by file name, which is the ID).
func (s *Store) List(ctx context.Context) ([]types.Recipe, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &types.StorageError{Backend: types.BackendFS, Op: "list", Err: err}
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, recipeExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, recipeExt))
	}
	sort.Strings(ids)

	out := make([]types.Recipe, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if err != nil {
			// A file deleted between ReadDir and the per-id read is not
			// a List failure; the record is simply gone.
			if errors.Is(err, types.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Update overwrites the file for an existing ID. The stored ID is kept.
func (s *Store) Update(ctx context.Context, id string, r types.Recipe) (types.Recipe, error) {
	if invalidID(id) {
		return types.Recipe{}, types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return types.Recipe{}, types.ErrNotFound
		}
		return types.Recipe{}, &types.StorageError{Backend: types.BackendFS, Op: "update", Err: err}
	}

	r.ID = id
	if err := s.write(r); err != nil {
		return types.Recipe{}, &types.StorageError{Backend: types.BackendFS, Op: "update", Err: err}
	}
	return r, nil
}

// Delete removes the file for the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if invalidID(id) {
		return types.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return types.ErrNotFound
		}
		return &types.StorageError{Backend: types.BackendFS, Op: "delete", Err: err}
	}
	return nil
}

// Purge removes every recipe file under the root.
func (s *Store) Purge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return &types.StorageError{Backend: types.BackendFS, Op: "purge", Err: err}
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recipeExt) {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, e.Name())); err != nil {
			return &types.StorageError{Backend: types.BackendFS, Op: "purge", Err: err}
		}
	}
	return nil
}

// Close is a no-op; files are synced on every write.
func (s *Store) Close() error { return nil }

// write atomically persists a recipe using the temp-file, fsync, rename
// pattern. The caller must hold s.mu.
func (s *Store) write(r types.Recipe) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling recipe: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, ".recipe-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing recipe: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(r.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
