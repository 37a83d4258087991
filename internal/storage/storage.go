// Package storage constructs the Store selected by configuration. Backend
// choice happens once at startup; there is no runtime switching.
package storage

import (
	"context"
	"fmt"

	"github.com/larderhq/larder/internal/fsstore"
	"github.com/larderhq/larder/internal/memory"
	"github.com/larderhq/larder/internal/sqlite"
	"github.com/larderhq/larder/pkg/types"
)

// Open validates cfg and returns the configured backend. A backend that
// fails to initialize (unwritable directory, unreachable database file)
// returns an error; the caller treats that as fatal.
func Open(ctx context.Context, cfg types.Config) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case types.BackendMemory:
		return memory.New(), nil
	case types.BackendFS:
		return fsstore.New(cfg.DataDir)
	case types.BackendSQL:
		return sqlite.Open(ctx, cfg.DBPath)
	default:
		// Unreachable after Validate; kept so a new backend constant
		// cannot silently fall through.
		return nil, fmt.Errorf("%w: %s", types.ErrBackendUnknown, cfg.Backend)
	}
}
