package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tiliavir/trivial-trip-planner/internal/model"
)

// TripsKey is the single key the trip collection is stored under.
const TripsKey = "trips"

var (
	// ErrNotFound is returned by Load when nothing has been stored yet.
	ErrNotFound = errors.New("no stored trips")
	// ErrCorrupt is returned by Load when the stored value cannot be decoded.
	ErrCorrupt = errors.New("corrupt stored trips")
)

// Store persists the whole trip collection under TripsKey.
type Store interface {
	Load() ([]model.Trip, error)
	Save(trips []model.Trip) error
}

// BaseDir returns the root data directory: $TTP_HOME if set, else ~/.ttp.
func BaseDir() (string, error) {
	if dir := os.Getenv("TTP_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".ttp"), nil
}

// Encode renders trips as the JSON array stored under TripsKey.
// A nil collection encodes as [] and nil lists as empty arrays.
func Encode(trips []model.Trip, indent bool) ([]byte, error) {
	out := make([]model.Trip, len(trips))
	for i, t := range trips {
		out[i] = t.Clone()
		out[i].Normalize()
	}
	if indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

// Decode parses a stored JSON array. Any parse failure wraps ErrCorrupt.
func Decode(data []byte) ([]model.Trip, error) {
	var trips []model.Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if trips == nil {
		trips = []model.Trip{}
	}
	for i := range trips {
		trips[i].Normalize()
	}
	return trips, nil
}

// FileStore keeps the collection in <dir>/trips.json.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the path of the trips file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, TripsKey+".json")
}

// Load reads the trips file. A corrupt file is moved aside to
// trips.json.corrupt before ErrCorrupt is returned, so the next save does
// not overwrite it.
func (s *FileStore) Load() ([]model.Trip, error) {
	path := s.Path()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	trips, err := Decode(data)
	if err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return nil, fmt.Errorf("%s (backed up to %s): %w", path, backupPath, err)
	}
	return trips, nil
}

// Save atomically writes the whole collection.
func (s *FileStore) Save(trips []model.Trip) error {
	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := Encode(trips, true)
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
