package storage

import (
	"fmt"
	"io"

	"github.com/Tiliavir/trivial-trip-planner/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the backend selected by cfg.Store together with a closer the
// caller must invoke when done.
func Open(base string, cfg config.Config) (Store, io.Closer, error) {
	switch cfg.Store {
	case config.StoreFile:
		return NewFileStore(base), nopCloser{}, nil
	case config.StoreSQLite:
		s, err := OpenSQLiteStore(cfg.SQLitePath(base), cfg.SQLite.WAL, cfg.SQLite.Sync)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StoreMemory:
		return NewMemoryStore(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}
