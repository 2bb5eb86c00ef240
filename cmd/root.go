package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-trip-planner/internal/config"
	"github.com/Tiliavir/trivial-trip-planner/internal/logging"
	"github.com/Tiliavir/trivial-trip-planner/internal/planner"
	"github.com/Tiliavir/trivial-trip-planner/internal/prompt"
	"github.com/Tiliavir/trivial-trip-planner/internal/render"
	"github.com/Tiliavir/trivial-trip-planner/internal/storage"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// app carries the global flags and the store opened for this invocation.
type app struct {
	dataDir  string
	store    string
	logLevel string

	// newPrompter builds the line prompter; tests swap in a scripted one.
	newPrompter func(cmd *cobra.Command) prompt.Prompter

	closer io.Closer
}

// envError marks failures of the environment (config, storage) rather than
// of the user's input. They exit with status 2.
type envError struct{ err error }

func (e *envError) Error() string { return e.err.Error() }
func (e *envError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	return buildRoot(&app{
		newPrompter: func(cmd *cobra.Command) prompt.Prompter {
			return prompt.NewTeaPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		},
	})
}

func buildRoot(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ttp",
		Short: "Trivial Trip Planner – a minimal CLI trip planner",
		Long: `ttp is a single-binary, file-based command-line trip planner.
Trips are stored as a human-readable JSON array in ~/.ttp/trips.json
(or $TTP_HOME), or in a SQLite database when configured.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Data directory (default $TTP_HOME or ~/.ttp)")
	root.PersistentFlags().StringVar(&a.store, "store", "", "Store backend: file, sqlite, memory (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newExportCmd(a),
		newCompletionCmd(root),
		newVersionCmd(),
	)
	return root
}

// controller resolves config and store and loads the trips.
func (a *app) controller(cmd *cobra.Command) (*planner.Controller, error) {
	base := a.dataDir
	if base == "" {
		var err error
		if base, err = storage.BaseDir(); err != nil {
			return nil, &envError{err}
		}
	}

	cfg, err := config.Load(base)
	if err != nil {
		return nil, &envError{err}
	}
	if a.store != "" {
		cfg.Store = a.store
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, &envError{err}
	}

	log := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	log.Debug("opening store", "kind", cfg.Store, "dir", base)

	store, closer, err := storage.Open(base, cfg)
	if err != nil {
		return nil, &envError{err}
	}
	a.closer = closer

	ctrl, err := planner.New(store, a.newPrompter(cmd), log)
	if err != nil {
		return nil, &envError{err}
	}
	return ctrl, nil
}

// release closes the store. A close failure is reported only when the
// command has not already failed.
func (a *app) release(err *error) {
	if cerr := a.close(); cerr != nil && *err == nil {
		*err = &envError{fmt.Errorf("closing store: %w", cerr)}
	}
}

// checkSaved reports a store write the controller could not complete. The
// change only lived in memory and is lost when the command exits.
func checkSaved(ctrl *planner.Controller) error {
	if err := ctrl.SaveErr(); err != nil {
		return &envError{fmt.Errorf("trips not saved: %w", err)}
	}
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// exitCode maps an error to the process status: 2 for environment
// failures, 1 for everything else.
func exitCode(err error) int {
	var env *envError
	if errors.As(err, &env) {
		return 2
	}
	return 1
}

// Execute is the entry point called from main.
func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(exitCode(err))
	}
}
