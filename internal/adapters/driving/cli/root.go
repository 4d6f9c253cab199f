// Package cli provides the cobra command tree for sercha-notes.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-notes/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options carries the global flag values to the service builder.
type Options struct {
	// NotesDir overrides notes.dir from the config file.
	NotesDir string

	// DataDir holds the SQLite index.
	DataDir string

	// MasterKey is handed to the note store when reading content.
	MasterKey []byte
}

// Services are the ports the commands run against.
type Services struct {
	Search   driving.SearchService
	Indexer  driving.IndexService
	Settings driving.SettingsService

	// NewSession creates an interactive session over the same index.
	NewSession func() driving.SearchSession

	// Watcher reports note store changes. Optional.
	Watcher driven.NoteWatcher

	// MasterKey is passed to index builds.
	MasterKey []byte

	// Ephemeral is true when the index does not outlive the process,
	// so one-shot commands must build it first.
	Ephemeral bool

	// Unavailable is set when only Settings could be built, typically
	// because the note store directory is missing.
	Unavailable error

	// Close releases stores. May be nil.
	Close func() error
}

// Builder constructs Services from the global options.
type Builder func(ctx context.Context, opts Options) (*Services, error)

var (
	builder  Builder
	services *Services

	notesDir   string
	dataDir    string
	verbose    bool
	unlock     bool
	readSecret = readPassword
)

var rootCmd = &cobra.Command{
	Use:   "sercha-notes",
	Short: "Search your notes from the terminal",
	Long: `sercha-notes indexes a directory of notes and answers substring
queries against page titles and block content.

Run 'sercha-notes index' to build the index, then 'sercha-notes search'
or 'sercha-notes tui' to query it.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&notesDir, "notes", "", "note store directory (overrides notes.dir)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "index data directory (default ~/.sercha-notes/data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&unlock, "unlock", false, "prompt for the note store master key")
}

// SetBuilder registers the function that wires services for commands.
func SetBuilder(b Builder) {
	builder = b
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup configures logging and builds services unless they are already
// set, which is how tests inject them.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if services != nil || builder == nil || cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}

	opts := Options{NotesDir: notesDir, DataDir: dataDir}
	if unlock {
		secret, err := readSecret(cmd, "Master key: ")
		if err != nil {
			return fmt.Errorf("reading master key: %w", err)
		}
		opts.MasterKey = secret
	}

	built, err := builder(cmd.Context(), opts)
	if err != nil {
		return err
	}
	services = built
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if services == nil || services.Close == nil {
		return nil
	}
	err := services.Close()
	services = nil
	return err
}

// annotationNoServices marks commands that run without services.
const annotationNoServices = "sercha-notes/no-services"

// errNotConfigured is returned when a command runs before services exist.
var errNotConfigured = errors.New("services not configured")

// loadServices returns the services, or the reason the note-backed ones
// are missing.
func loadServices() (*Services, error) {
	if services == nil {
		return nil, errNotConfigured
	}
	if services.Unavailable != nil {
		return nil, services.Unavailable
	}
	return services, nil
}
