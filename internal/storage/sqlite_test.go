package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-trip-planner/internal/model"
)

func openMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLiteStore(":memory:", false, "NORMAL")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenDBConnectionRejectsBadSyncPragma(t *testing.T) {
	_, err := OpenDBConnection(":memory:", false, "sometimes")

	assert.ErrorContains(t, err, "invalid sync pragma value")
}

func TestUpgradeDBNewDatabase(t *testing.T) {
	s := openMemoryStore(t)

	version, err := SchemaVersion(s.DB(), KVComponent)

	require.NoError(t, err)
	assert.Equal(t, TargetSchemaVersion, version)
	// Running again on an up-to-date database is a no-op.
	assert.NoError(t, UpgradeDB(s.DB(), ":memory:", TargetSchemaVersion))
}

func TestUpgradeDBVersionMismatch(t *testing.T) {
	s := openMemoryStore(t)

	err := UpgradeDB(s.DB(), ":memory:", TargetSchemaVersion+1)
	assert.ErrorContains(t, err, fmt.Sprintf("has schema version %d, which is older", TargetSchemaVersion))

	require.NoError(t, InitializeSchema(s.DB(), TargetSchemaVersion+1))
	err = UpgradeDB(s.DB(), ":memory:", TargetSchemaVersion)
	assert.ErrorContains(t, err, "which is newer")
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := openMemoryStore(t)

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNotFound)

	trips := []model.Trip{
		{StartDate: "2024-05-01", EndDate: "2024-05-10", Destination: "Rome",
			Activities: []string{"a", "a"}, Expenses: []string{}, Companions: []string{}},
	}
	require.NoError(t, s.Save(trips))
	// Overwrite the same key.
	trips[0].Destination = "Florence"
	require.NoError(t, s.Save(trips))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, trips, loaded)

	var rows int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSQLiteStoreCorruptValue(t *testing.T) {
	s := openMemoryStore(t)
	_, err := s.DB().Exec(putValueStatement, TripsKey, "not json")
	require.NoError(t, err)

	_, err = s.Load()
	require.ErrorIs(t, err, ErrCorrupt)

	var backup string
	require.NoError(t, s.DB().QueryRow(getValueStatement, TripsKey+".corrupt").Scan(&backup))
	assert.Equal(t, "not json", backup)
	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNotFound, "the corrupt row is moved, not copied")
}

func TestSQLiteStoreCorruptValueSurvivesNextSave(t *testing.T) {
	s := openMemoryStore(t)
	_, err := s.DB().Exec(putValueStatement, TripsKey, `[{"destination":"Rome",`)
	require.NoError(t, err)

	_, err = s.Load()
	require.ErrorIs(t, err, ErrCorrupt)
	require.NoError(t, s.Save([]model.Trip{{Destination: "Oslo"}}))

	var backup string
	require.NoError(t, s.DB().QueryRow(getValueStatement, TripsKey+".corrupt").Scan(&backup))
	assert.Equal(t, `[{"destination":"Rome",`, backup)
	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Oslo", loaded[0].Destination)
}
