package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 100

var (
	searchLimit int
	searchScope string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed notes",
	Long: `Finds page titles and blocks containing the query, ignoring case.
Favourite pages rank first, then title matches, then blocks whose snippet
shows the match.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = search.max_results)")
	searchCmd.Flags().StringVar(&searchScope, "scope", "", "restrict to one workspace (root ID)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if svc.Ephemeral {
		if _, err := svc.Indexer.InitializeSearchIndex(ctx, masterKey()); err != nil {
			return fmt.Errorf("building index: %w", err)
		}
	}

	opts := domain.SearchOptions{
		Scope:      searchScope,
		MaxResults: searchLimit,
	}

	results, err := svc.Search.PerformSearch(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	width := terminalWidth()
	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		title := r.PageTitle
		if strings.TrimSpace(title) == "" {
			title = r.PageID
		}
		marker := ""
		if r.IsFavorite {
			marker = " *"
		}

		cmd.Printf("  [%d] %s%s\n", i+1, title, marker)
		if !r.IsTitle() {
			snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
			cmd.Printf("      %s\n", clip(snippet, width-6))
		}
		if r.RootID != "" {
			cmd.Printf("      Workspace: %s\n", r.RootID)
		}
		cmd.Println()
	}
	return nil
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w < 20 {
		return defaultWidth
	}
	return w
}

// clip shortens s to n runes.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func masterKey() []byte {
	if services == nil {
		return nil
	}
	return services.MasterKey
}
