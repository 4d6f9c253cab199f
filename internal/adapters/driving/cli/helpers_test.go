package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-notes/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
	svcs "github.com/custodia-labs/sercha-notes/internal/core/services"
)

func textBlock(id, s string) domain.Block {
	return domain.NewBlock(id, domain.BlockTypeText, domain.TextData{Text: s})
}

func samplePages() []domain.Page {
	modified := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return []domain.Page{
		{
			ID: "p1", RootID: "home", Name: "Groceries", Type: domain.PageTypeDocument, LastModified: modified,
			Elements: []domain.Element{{ID: "e1", Type: "section", Content: []domain.Block{
				textBlock("b1", "buy milk and eggs"),
			}}},
		},
		{
			ID: "p2", RootID: "work", Name: "Standup", Type: domain.PageTypeDocument, LastModified: modified, IsFavorite: true,
			Elements: []domain.Element{{ID: "e1", Type: "section", Content: []domain.Block{
				textBlock("b1", "milk the deadline"),
			}}},
		},
		{ID: "w1", RootID: "work", Name: "Work", Type: domain.PageTypeWorkspace},
	}
}

// testEnv holds the stores behind the injected services.
type testEnv struct {
	store  *memory.IndexStore
	config *memory.ConfigStore
}

// setupTestServices injects in-memory services and resets command flags.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewIndexStore()
	notes := memory.NewNoteStore(samplePages()...)
	config := memory.NewConfigStore(nil)
	settings := domain.DefaultSearchSettings()

	indexer := svcs.NewIndexService(notes, store, nil, nil, 2)
	engine := svcs.NewSearchEngine(store, settings)

	services = &Services{
		Search:   engine,
		Indexer:  indexer,
		Settings: svcs.NewSettingsService(config),
		NewSession: func() driving.SearchSession {
			return svcs.NewSearchSession(engine, indexer, settings, nil)
		},
		Ephemeral: true,
	}
	searchLimit, searchScope, searchJSON = 0, "", false
	notesDir, dataDir, verbose, unlock = "", "", false, false

	t.Cleanup(func() {
		services = nil
		builder = nil
	})
	return &testEnv{store: store, config: config}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}
