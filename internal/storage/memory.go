package storage

import "github.com/Tiliavir/trivial-trip-planner/internal/model"

// MemoryStore keeps the encoded collection in memory. It goes through the
// same Encode/Decode path as the persistent stores.
type MemoryStore struct {
	data []byte

	// SaveErr, when set, is returned by Save and nothing is stored.
	SaveErr error
	// Saves counts successful saves.
	Saves int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWithData returns a store preloaded with raw stored bytes.
func NewMemoryStoreWithData(data []byte) *MemoryStore {
	return &MemoryStore{data: data}
}

// Load decodes the held bytes; ErrNotFound before the first save.
func (s *MemoryStore) Load() ([]model.Trip, error) {
	if s.data == nil {
		return nil, ErrNotFound
	}
	return Decode(s.data)
}

// Save encodes trips and counts the write. When SaveErr is set it is
// returned and the held bytes are left untouched.
func (s *MemoryStore) Save(trips []model.Trip) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	data, err := Encode(trips, false)
	if err != nil {
		return err
	}
	s.data = data
	s.Saves++
	return nil
}

// Raw returns the stored bytes, nil if nothing was saved.
func (s *MemoryStore) Raw() []byte {
	return s.data
}
