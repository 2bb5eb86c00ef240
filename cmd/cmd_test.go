package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-trip-planner/internal/model"
	"github.com/Tiliavir/trivial-trip-planner/internal/planner"
	"github.com/Tiliavir/trivial-trip-planner/internal/prompt"
)

// run executes ttp with args against dir and returns stdout.
func run(t *testing.T, dir string, p prompt.Prompter, args ...string) (string, error) {
	t.Helper()
	if p == nil {
		p = prompt.NewScripted()
	}
	root := buildRoot(&app{
		newPrompter: func(*cobra.Command) prompt.Prompter { return p },
	})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func exportTrips(t *testing.T, dir string, extra ...string) []model.Trip {
	t.Helper()
	out, err := run(t, dir, nil, append(extra, "export", "--format", "json")...)
	require.NoError(t, err)
	var trips []model.Trip
	require.NoError(t, json.Unmarshal([]byte(out), &trips))
	return trips
}

func TestAddListEditDelete(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, nil, "add",
		"--start", "2024-05-01", "--end", "2024-05-10", "--destination", "Rome",
		"--activity", "Colosseum", "--activity", "Vatican", "--companion", "Marco")
	require.NoError(t, err)
	assert.Equal(t, "Added trip #1 to \"Rome\"\n", out)

	_, err = run(t, dir, nil, "add", "--start", "2024-07-01", "--end", "2024-07-02", "--destination", "Naples")
	require.NoError(t, err)

	out, err = run(t, dir, nil, "edit", "1", "--destination", "Florence",
		"--remove-activity", "Vatican", "--add-expense", "train 40 EUR")
	require.NoError(t, err)
	assert.Equal(t, "Saved trip #1\n", out)

	trips := exportTrips(t, dir)
	require.Len(t, trips, 2)
	assert.Equal(t, model.Trip{
		StartDate:   "2024-05-01",
		EndDate:     "2024-05-10",
		Destination: "Florence",
		Activities:  []string{"Colosseum"},
		Expenses:    []string{"train 40 EUR"},
		Companions:  []string{"Marco"},
	}, trips[0])

	out, err = run(t, dir, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Florence")
	assert.Contains(t, out, "(10 days)")

	out, err = run(t, dir, nil, "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted trip #1 (Florence)\n", out)

	trips = exportTrips(t, dir)
	require.Len(t, trips, 1)
	assert.Equal(t, "Naples", trips[0].Destination)
}

func TestAddRejectsEndBeforeStart(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, nil, "add", "--start", "2024-05-10", "--end", "2024-05-01", "--destination", "Rome")

	var dateErr *planner.DateOrderError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, 1, exitCode(err))
	assert.Empty(t, exportTrips(t, dir))
}

func TestEditRejectsEndBeforeStart(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, nil, "add", "--start", "2024-05-01", "--end", "2024-05-10", "--destination", "Rome")
	require.NoError(t, err)

	_, err = run(t, dir, nil, "edit", "1", "--end", "2024-04-01")

	assert.ErrorAs(t, err, new(*planner.DateOrderError))
	assert.Equal(t, "2024-05-10", exportTrips(t, dir)[0].EndDate)
}

func TestEditAndDeleteOutOfRange(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, nil, "edit", "1", "--destination", "x")
	assert.ErrorIs(t, err, planner.ErrIndexOutOfRange)

	_, err = run(t, dir, nil, "delete", "0")
	assert.ErrorIs(t, err, planner.ErrIndexOutOfRange)

	_, err = run(t, dir, nil, "delete", "one")
	assert.ErrorContains(t, err, "invalid trip number")
}

func TestAddInteractive(t *testing.T) {
	dir := t.TempDir()
	p := prompt.NewScripted("museum", "museum", "", "hotel", "")

	_, err := run(t, dir, p, "add", "-i", "--start", "2024-05-01", "--end", "2024-05-02", "--destination", "Paris")
	require.NoError(t, err)

	trips := exportTrips(t, dir)
	require.Len(t, trips, 1)
	assert.Equal(t, []string{"museum", "museum"}, trips[0].Activities)
	assert.Equal(t, []string{"hotel"}, trips[0].Expenses)
	assert.Empty(t, trips[0].Companions)
	assert.Equal(t, []string{
		"Enter the activity:", "Enter the activity:", "Enter the activity:",
		"Enter the expense:", "Enter the expense:",
		"Enter the travel companion name:",
	}, p.Asked)
}

func TestSQLiteStoreFlag(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, nil, "--store", "sqlite", "add", "--start", "2024-05-01", "--end", "2024-05-02", "--destination", "Lisbon")
	require.NoError(t, err)

	assert.Len(t, exportTrips(t, dir, "--store", "sqlite"), 1)
	assert.Empty(t, exportTrips(t, dir), "file store is separate")
}

func TestUnknownStoreIsEnvError(t *testing.T) {
	_, err := run(t, t.TempDir(), nil, "--store", "redis", "list")

	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.New("usage")))
	assert.Equal(t, 2, exitCode(&envError{errors.New("disk")}))
}

func TestCompletion(t *testing.T) {
	out, err := run(t, t.TempDir(), nil, "completion", "bash")

	require.NoError(t, err)
	assert.Contains(t, out, "ttp")
}

func TestAddReportsLostWrite(t *testing.T) {
	dir := t.TempDir()
	// A directory in the temp file's place makes every save fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "trips.json.tmp"), 0o700))

	out, err := run(t, dir, nil, "add", "--start", "2024-05-01", "--end", "2024-05-02", "--destination", "Rome")

	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.ErrorContains(t, err, "trips not saved")
	assert.Empty(t, out)
	assert.Empty(t, exportTrips(t, dir))
}

func TestEditAndDeleteReportLostWrite(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, nil, "add", "--start", "2024-05-01", "--end", "2024-05-02", "--destination", "Rome")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "trips.json.tmp"), 0o700))

	_, err = run(t, dir, nil, "edit", "1", "--destination", "Florence")
	assert.Equal(t, 2, exitCode(err))

	_, err = run(t, dir, nil, "delete", "1")
	assert.Equal(t, 2, exitCode(err))

	trips := exportTrips(t, dir)
	require.Len(t, trips, 1)
	assert.Equal(t, "Rome", trips[0].Destination)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestReleaseReportsCloseFailure(t *testing.T) {
	a := &app{closer: closerFunc(func() error { return errors.New("database is locked") })}
	var err error

	a.release(&err)

	assert.Equal(t, 2, exitCode(err))
	assert.ErrorContains(t, err, "database is locked")
	assert.Nil(t, a.closer)

	// An earlier failure wins over the close error.
	first := errors.New("bad input")
	a.closer = closerFunc(func() error { return errors.New("database is locked") })
	err = first
	a.release(&err)
	assert.Same(t, first, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), nil, "version")

	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}
