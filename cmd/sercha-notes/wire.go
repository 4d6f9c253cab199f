package main

import (
	"context"
	"fmt"

	configfile "github.com/custodia-labs/sercha-notes/internal/adapters/driven/config/file"
	notesfile "github.com/custodia-labs/sercha-notes/internal/adapters/driven/notes/file"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-notes/internal/core/services"
	"github.com/custodia-labs/sercha-notes/internal/extractors"
	"github.com/custodia-labs/sercha-notes/internal/logger"
)

// configDir is where config.toml is read from. Tests point it elsewhere.
var configDir = configfile.DefaultConfigDir

// build wires the adapters and services for one command run.
func build(_ context.Context, opts cli.Options) (*cli.Services, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	configStore, err := configfile.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	out := &cli.Services{
		Settings:  settingsService,
		MasterKey: opts.MasterKey,
	}

	notesDir := opts.NotesDir
	if notesDir == "" {
		notesDir = settings.NotesDir
	}
	if notesDir == "" {
		out.Unavailable = fmt.Errorf("%w: notes directory is not set", domain.ErrNoteStoreUnavailable)
		return out, nil
	}
	noteStore, err := notesfile.NewNoteStore(notesDir)
	if err != nil {
		out.Unavailable = err
		return out, nil
	}

	store, err := openIndexStore(settings.Backend, opts.DataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Index backend %s, notes in %s", settings.Backend, noteStore.Dir())

	policy := extractors.NewPolicy(settings.ExcludedElementTypes, settings.ExcludedBlockTypes)
	indexer := services.NewIndexService(noteStore, store, extractors.DefaultRegistry(), policy, settings.WriteConcurrency)
	engine := services.NewSearchEngine(store, *settings)
	sessionSettings := *settings

	out.Search = engine
	out.Indexer = indexer
	out.Watcher = noteStore
	out.Ephemeral = settings.Backend == domain.StorageMemory
	out.NewSession = func() driving.SearchSession {
		return services.NewSearchSession(engine, indexer, sessionSettings, opts.MasterKey)
	}
	out.Close = store.Close
	return out, nil
}

func openIndexStore(backend domain.StorageBackend, dataDir string) (driven.IndexStore, error) {
	switch backend {
	case domain.StorageMemory:
		return memory.NewIndexStore(), nil
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening index: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, backend)
	}
}
