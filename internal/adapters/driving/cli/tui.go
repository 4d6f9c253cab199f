package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui"
	"github.com/custodia-labs/sercha-notes/internal/logger"
)

// programRunner runs a bubbletea model. Tests replace it.
var programRunner = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive search session.

The index is rebuilt when the session opens and cleared when it closes.
Results update as you type, after a short pause.

Controls:
  (type)       Edit the query
  enter        Search now
  tab          Switch between query and results
  ↑/k, ↓/j     Navigate results
  enter        Open the selected result
  s / a        Scope to the result's workspace / all workspaces
  ctrl+r       Rebuild the index
  ?            Help (from the results)
  ctrl+c       Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panicked: %v", r)
		}
	}()

	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.NewSession == nil {
		return errNotConfigured
	}

	ports := &tui.Ports{
		Session:   svc.NewSession(),
		Indexer:   svc.Indexer,
		Watcher:   svc.Watcher,
		MasterKey: svc.MasterKey,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// Log lines would corrupt the alternate screen.
	if !verbose {
		logger.SetQuiet(true)
		defer logger.SetQuiet(false)
	}

	runErr := programRunner(app)
	closeErr := app.Close(context.WithoutCancel(cmd.Context()))
	if runErr != nil {
		runErr = fmt.Errorf("TUI error: %w", runErr)
	}
	return errors.Join(runErr, closeErr)
}
