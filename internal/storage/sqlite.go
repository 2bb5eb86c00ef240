package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/Tiliavir/trivial-trip-planner/internal/model"
)

const (
	// TargetSchemaVersion is the kv schema version this build reads and writes.
	TargetSchemaVersion int64 = 1
	// KVComponent names the key-value table set in ttp_versions.
	KVComponent = "kv"

	schemaV1 = `
CREATE TABLE IF NOT EXISTS ttp_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`

	getValueStatement = `SELECT value FROM kv WHERE key = ?`

	putValueStatement = `
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()`
)

var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// OpenDBConnection opens and pings a SQLite database. enableWAL switches the
// journal to WAL; syncPragma is one of OFF, NORMAL, FULL, EXTRA or empty for
// the driver default.
func OpenDBConnection(baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	params := url.Values{}
	if enableWAL {
		params.Add("_journal_mode", "WAL")
	}
	if syncPragma != "" {
		uc := strings.ToUpper(syncPragma)
		if !validSyncModes[uc] {
			return nil, fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", syncPragma)
		}
		params.Add("_synchronous", uc)
	}

	dsn := baseDSN
	if len(params) > 0 {
		if strings.Contains(baseDSN, "?") {
			dsn += "&" + params.Encode()
		} else {
			dsn += "?" + params.Encode()
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", dsn, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", dsn, err)
	}
	return db, nil
}

// SchemaVersion returns the stored version of component, 0 when the
// database has not been initialised.
func SchemaVersion(db *sql.DB, component string) (int64, error) {
	var version int64
	err := db.QueryRow(`SELECT version FROM ttp_versions WHERE component = ?`, component).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", component, err)
	}
	return version, nil
}

// InitializeSchema creates the kv tables and records version.
func InitializeSchema(db *sql.DB, version int64) error {
	if _, err := db.Exec(schemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}
	_, err := db.Exec(`
INSERT INTO ttp_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch()`,
		KVComponent, version)
	if err != nil {
		return fmt.Errorf("failed to set version for component %s to %d: %w", KVComponent, version, err)
	}
	return nil
}

// UpgradeDB brings the kv component to target. Only initialisation is
// supported; any other version mismatch is an error.
func UpgradeDB(db *sql.DB, dbIdentifier string, target int64) error {
	current, err := SchemaVersion(db, KVComponent)
	if err != nil {
		return err
	}
	switch {
	case current == 0:
		if err := InitializeSchema(db, target); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", KVComponent, dbIdentifier, err)
		}
		return nil
	case current == target:
		return nil
	case current < target:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d", KVComponent, dbIdentifier, current, target)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", KVComponent, dbIdentifier, current, target)
	}
}

// SQLiteStore keeps the encoded collection in the kv row TripsKey.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens the database at dsn and upgrades its schema.
func OpenSQLiteStore(dsn string, enableWAL bool, syncPragma string) (*SQLiteStore, error) {
	db, err := OpenDBConnection(dsn, enableWAL, syncPragma)
	if err != nil {
		return nil, err
	}
	// One connection: a :memory: database exists per connection.
	db.SetMaxOpenConns(1)
	if err := UpgradeDB(db, dsn, TargetSchemaVersion); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads and decodes the trips row. A corrupt value is moved to the
// trips.corrupt key before ErrCorrupt is returned.
func (s *SQLiteStore) Load() ([]model.Trip, error) {
	var value string
	err := s.db.QueryRow(getValueStatement, TripsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading key %q: %w", TripsKey, err)
	}

	trips, err := Decode([]byte(value))
	if err != nil {
		backupKey := TripsKey + ".corrupt"
		if moveErr := s.moveAside(backupKey, value); moveErr != nil {
			return nil, fmt.Errorf("key %q (backup failed: %v): %w", TripsKey, moveErr, err)
		}
		return nil, fmt.Errorf("key %q (backed up to %q): %w", TripsKey, backupKey, err)
	}
	return trips, nil
}

// moveAside stores value under backupKey and removes the trips row in one
// transaction.
func (s *SQLiteStore) moveAside(backupKey, value string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(putValueStatement, backupKey, value); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, TripsKey); err != nil {
		return err
	}
	return tx.Commit()
}

// Save upserts the encoded collection into the trips row.
func (s *SQLiteStore) Save(trips []model.Trip) error {
	data, err := Encode(trips, false)
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	if _, err := s.db.Exec(putValueStatement, TripsKey, string(data)); err != nil {
		return fmt.Errorf("storage error writing key %q: %w", TripsKey, err)
	}
	return nil
}

// DB exposes the underlying connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
