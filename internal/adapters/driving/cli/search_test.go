package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

func TestSearchCmd_Metadata(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
	assert.Equal(t, "Search indexed notes", searchCmd.Short)

	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "0", limit.DefValue)
	assert.NotNil(t, searchCmd.Flags().Lookup("scope"))
	assert.NotNil(t, searchCmd.Flags().Lookup("json"))
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_Table(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "search", "milk")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Standup *", "favourites rank first")
	assert.Contains(t, out, "[2] Groceries")
	assert.Contains(t, out, "buy milk and eggs")
	assert.Contains(t, out, "Workspace: home")
}

func TestSearchCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "search", "--json", "MILK")

	require.NoError(t, err)
	var results []domain.SearchResult
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "p2", results[0].PageID)
	assert.Equal(t, "milk the deadline", results[0].FullContent)
}

func TestSearchCmd_Scope(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "search", "--scope", "home", "milk")

	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "Standup")
}

func TestSearchCmd_Limit(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "search", "-n", "1", "milk")

	require.NoError(t, err)
	assert.Contains(t, out, "[1]")
	assert.NotContains(t, out, "[2]")
}

func TestSearchCmd_TitleMatch(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "search", "grocer")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] Groceries")
	assert.NotContains(t, out, "buy milk", "title results print no snippet")
}

func TestSearchCmd_NoResults(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "search", "zebra")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_ShortQuery(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "search", "m")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_WorkspacePagesNotIndexed(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "search", "work")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_Unavailable(t *testing.T) {
	setupTestServices(t)
	services.Unavailable = errors.New("note store unavailable")

	_, err := execute(t, "search", "milk")

	assert.EqualError(t, err, "note store unavailable")
}

func TestSearchCmd_NotConfigured(t *testing.T) {
	setupTestServices(t)
	services = nil

	_, err := execute(t, "search", "milk")

	assert.ErrorIs(t, err, errNotConfigured)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd...", clip("abcdefghij", 7))
	assert.Equal(t, "éé...", clip("éééééé", 5))
}
