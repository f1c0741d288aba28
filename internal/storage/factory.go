package storage

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/bufferbell/internal/colors"
	"github.com/cristianoliveira/bufferbell/internal/config"
	"github.com/cristianoliveira/bufferbell/internal/storage/sqlite"
)

const (
	// BackendSQLite selects the SQLite store at db_path.
	BackendSQLite = "sqlite"
	// BackendMemory selects a store that lives only as long as the process.
	BackendMemory = "memory"
)

// NewFromConfig creates a store based on configuration.
func NewFromConfig() (Store, error) {
	config.Load()
	return NewForBackend(config.Get("storage_backend", BackendSQLite), config.Get("db_path", ""))
}

// NewForBackend creates a store for the provided backend name.
// A SQLite store that cannot be opened falls back to memory with a warning.
func NewForBackend(backend, dbPath string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		store, err := sqlite.NewBufferStore(dbPath)
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend, falling back to memory: %v", err))
			return NewMemoryStore(), nil
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend '%s'", backend)
	}
}
