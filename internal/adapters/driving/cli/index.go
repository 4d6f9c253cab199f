package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index",
	Long: `Clears the index and rebuilds it from every indexable page in the
note store. Workspace pages and sensitive pages are left out.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var indexClearCmd = &cobra.Command{
	Use:   "clear [page-id]",
	Short: "Remove all records, or those of one page",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndexClear,
}

var indexPageCmd = &cobra.Command{
	Use:   "page <page-id>",
	Short: "Rebuild the records of one page",
	Long: `Re-reads one page from the note store and replaces its records.
A page that no longer exists, or is no longer indexable, loses its records.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexPage,
}

func init() {
	indexCmd.AddCommand(indexClearCmd)
	indexCmd.AddCommand(indexPageCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	stats, err := svc.Indexer.InitializeSearchIndex(cmd.Context(), masterKey())
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %d pages (%d skipped), %d records in %s\n",
		stats.Pages, stats.Skipped, stats.Records, stats.Duration.Round(time.Millisecond))
	if svc.Ephemeral {
		cmd.Println("Note: storage.backend is memory, the index is discarded on exit.")
	}
	return nil
}

func runIndexClear(cmd *cobra.Command, args []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if err := svc.Indexer.ClearPageIndex(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("clearing page %s: %w", args[0], err)
		}
		cmd.Printf("Cleared records of page %s\n", args[0])
		return nil
	}

	if err := svc.Indexer.ClearSearchIndex(cmd.Context()); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	cmd.Println("Index cleared.")
	return nil
}

func runIndexPage(cmd *cobra.Command, args []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if err := svc.Indexer.ReindexPage(cmd.Context(), args[0], masterKey()); err != nil {
		return fmt.Errorf("reindexing page %s: %w", args[0], err)
	}
	cmd.Printf("Reindexed page %s\n", args[0])
	return nil
}
