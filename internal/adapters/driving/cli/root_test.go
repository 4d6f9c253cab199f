package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-notes/internal/logger"
)

func TestRootCmd_Flags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{"notes", "data-dir", "verbose", "unlock"} {
		assert.NotNil(t, flags.Lookup(name), name)
	}
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"search", "index", "tui", "mcp", "settings", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestSetup_BuildsServicesFromFlags(t *testing.T) {
	env := setupTestServices(t)
	injected := services
	services = nil

	var got Options
	SetBuilder(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return injected, nil
	})

	_, err := execute(t, "--notes", "/tmp/notes", "--data-dir", "/tmp/data", "index")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/notes", got.NotesDir)
	assert.Equal(t, "/tmp/data", got.DataDir)
	assert.Nil(t, got.MasterKey)

	count, err := env.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestSetup_BuilderError(t *testing.T) {
	setupTestServices(t)
	services = nil
	SetBuilder(func(context.Context, Options) (*Services, error) {
		return nil, errors.New("config.toml: bad value")
	})

	_, err := execute(t, "index")

	assert.EqualError(t, err, "config.toml: bad value")
}

func TestSetup_UnlockReadsMasterKey(t *testing.T) {
	setupTestServices(t)
	injected := services
	services = nil

	original := readSecret
	readSecret = func(*cobra.Command, string) ([]byte, error) { return []byte("key"), nil }
	defer func() { readSecret = original }()

	var got Options
	SetBuilder(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return injected, nil
	})

	_, err := execute(t, "--unlock", "index")

	require.NoError(t, err)
	assert.Equal(t, []byte("key"), got.MasterKey)
}

func TestSetup_UnlockFailure(t *testing.T) {
	setupTestServices(t)
	services = nil

	original := readSecret
	readSecret = func(*cobra.Command, string) ([]byte, error) { return nil, errors.New("EOF") }
	defer func() { readSecret = original }()
	SetBuilder(func(context.Context, Options) (*Services, error) { return nil, nil })

	_, err := execute(t, "--unlock", "index")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading master key")
}

func TestSetup_Verbose(t *testing.T) {
	setupTestServices(t)
	defer logger.SetVerbose(false)

	_, err := execute(t, "--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestTeardown_ClosesServices(t *testing.T) {
	setupTestServices(t)
	closed := 0
	services.Close = func() error {
		closed++
		return nil
	}

	_, err := execute(t, "index")

	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Nil(t, services)
}

func TestExecute(t *testing.T) {
	setupTestServices(t)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	assert.NoError(t, Execute(context.Background()))
}
