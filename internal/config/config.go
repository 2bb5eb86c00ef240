package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the root configuration for ttp, stored in <data dir>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// Store selects the trip store backend: "file", "sqlite" or "memory".
	Store string `json:"store"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string       `json:"log_level"`
	SQLite   SQLiteConfig `json:"sqlite"`
}

// SQLiteConfig holds settings for the sqlite store backend.
type SQLiteConfig struct {
	// Path is the database file, relative paths resolve against the data dir.
	Path string `json:"path"`
	WAL  bool   `json:"wal"`
	// Sync is the synchronous pragma: OFF, NORMAL, FULL or EXTRA.
	Sync string `json:"sync"`
}

// Store backends accepted by the store setting.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"

	// Values used for settings missing from config.json.
	DefaultStore      = StoreFile
	DefaultLogLevel   = "info"
	DefaultSQLitePath = "trips.db"
	DefaultSQLiteSync = "FULL"

	fileName = "config.json"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		Store:    DefaultStore,
		LogLevel: DefaultLogLevel,
		SQLite: SQLiteConfig{
			Path: DefaultSQLitePath,
			Sync: DefaultSQLiteSync,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// ttp configuration
//
// All settings are optional; the defaults shown below work out of the box.
// Command-line flags (--store, --log-level) take precedence over this file.
{
  // Where trips are kept:
  // • "file"   – trips.json next to this file (default)
  // • "sqlite" – a single row in a SQLite key-value table
  // • "memory" – nothing is persisted, useful for trying things out
  "store": "file",

  // Minimum level of diagnostics written to stderr: debug, info, warn, error.
  "log_level": "info",

  "sqlite": {
    // Database file, relative to the data directory.
    "path": "trips.db",
    // Enable write-ahead logging.
    "wal": false,
    // SQLite synchronous pragma: OFF, NORMAL, FULL, EXTRA.
    "sync": "FULL"
  }
}
`

// FilePath returns the config file path inside base.
func FilePath(base string) string {
	return filepath.Join(base, fileName)
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <base>/config.json, creating it with annotated defaults on first
// run. Zero-value fields are filled from the defaults.
func Load(base string) (Config, error) {
	path := FilePath(base)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	def := Default()
	if cfg.Store == "" {
		cfg.Store = def.Store
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = def.SQLite.Path
	}
	if cfg.SQLite.Sync == "" {
		cfg.SQLite.Sync = def.SQLite.Sync
	}

	if err := cfg.Validate(); err != nil {
		return def, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want file, sqlite or memory)", c.Store)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q (want debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

// SQLitePath resolves the configured database path against base.
func (c Config) SQLitePath(base string) string {
	if filepath.IsAbs(c.SQLite.Path) || c.SQLite.Path == ":memory:" {
		return c.SQLite.Path
	}
	return filepath.Join(base, c.SQLite.Path)
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
