// Package kv implements the key-value stores the tally state is persisted
// to: an in-memory map, one file per key, and a SQLite table.
package kv

import (
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/tally/internal/log"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// sqliteFileName is the database file created inside the data directory.
const sqliteFileName = "tally.db"

// Open returns the store named by cfg.Backend rooted at cfg.DataDir.
// An empty DataDir means the current directory. Backends log under the
// storage component of logger; a nil logger discards.
func Open(cfg types.Config, logger *log.Logger) (types.KV, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}

	switch cfg.Backend {
	case types.BackendMemory:
		return NewMemory(), nil
	case types.BackendFile:
		return OpenFile(dataDir)
	case types.BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, sqliteFileName), logger)
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
	}
}
