package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change settings",
	Long: `View the effective search settings and point sercha-notes at a
note store directory. Other values are edited in ~/.sercha-notes/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsNotesDirCmd = &cobra.Command{
	Use:   "notes-dir <dir>",
	Short: "Set the note store directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsNotesDir,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsNotesDirCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Settings == nil {
		return errNotConfigured
	}

	settings, err := services.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Min query length: %d\n", settings.MinQueryLength)
	cmd.Printf("  Max results: %d\n", settings.MaxResults)
	cmd.Printf("  Snippet length: %d\n", settings.SnippetLength)
	cmd.Printf("  Debounce: %s\n", settings.Debounce)
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Excluded element types: %s\n", listOrNone(settings.ExcludedElementTypes))
	cmd.Printf("  Excluded block types: %s\n", listOrNone(settings.ExcludedBlockTypes))
	cmd.Printf("  Write concurrency: %d\n", settings.WriteConcurrency)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Backend)
	notes := settings.NotesDir
	if notes == "" {
		notes = "(not set)"
	}
	cmd.Printf("  Notes: %s\n", notes)
	cmd.Println()

	if services.Unavailable != nil {
		cmd.Printf("Warning: %v\n", services.Unavailable)
		cmd.Println("Run 'sercha-notes settings notes-dir <dir>' to fix it.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsNotesDir(cmd *cobra.Command, args []string) error {
	if services == nil || services.Settings == nil {
		return errNotConfigured
	}
	if err := services.Settings.SetNotesDir(args[0]); err != nil {
		return fmt.Errorf("failed to set notes directory: %w", err)
	}
	cmd.Println("Notes directory updated.")
	return nil
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

// readPassword prompts on stderr and reads a line without echo when stdin
// is a terminal.
func readPassword(cmd *cobra.Command, prompt string) ([]byte, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	defer fmt.Fprintln(cmd.ErrOrStderr())

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return term.ReadPassword(int(os.Stdin.Fd()))
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return nil, err
	}
	return []byte(strings.TrimSpace(input)), nil
}
