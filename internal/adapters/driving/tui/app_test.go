package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	if ports == nil {
		ports = &Ports{Session: newFakeSession()}
	}
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func typeText(app *App, text string) {
	for _, r := range text {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// runCmd executes cmd with a timeout so a blocking wait fails the test
// instead of hanging it.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not complete")
		return nil
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(&Ports{Session: newFakeSession()})

	require.NoError(t, err)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingSession)
	assert.Nil(t, app)

	app, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingSession)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, nil)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_InitSubscribesOnce(t *testing.T) {
	session := newFakeSession()
	app := newTestApp(t, &Ports{Session: session})

	assert.NotNil(t, app.Init())
	app.Init()

	assert.Equal(t, 1, session.subscriberCount())
}

func TestApp_OpenIndex(t *testing.T) {
	session := newFakeSession()
	session.openErr = errors.New("note store unavailable")
	app := newTestApp(t, &Ports{Session: session})

	msg := runCmd(t, app.openIndex())

	opened, ok := msg.(messages.IndexOpened)
	require.True(t, ok)
	assert.EqualError(t, opened.Err, "note store unavailable")
	assert.Equal(t, 1, session.opened)

	app.Update(opened)
	assert.Contains(t, app.View(), "note store unavailable")
}

func TestApp_SnapshotsFlowThroughMailbox(t *testing.T) {
	session := newFakeSession()
	app := newTestApp(t, &Ports{Session: session})
	app.Init()

	typeText(app, "milk")

	msg := runCmd(t, waitForSnapshot(app.snapshots))
	snap, ok := msg.(messages.SnapshotUpdated)
	require.True(t, ok)
	assert.Equal(t, "milk", snap.Snapshot.Query, "only the newest snapshot is kept")

	_, cmd := app.Update(snap)
	assert.NotNil(t, cmd)
}

func TestApp_DeliverNeverBlocks(t *testing.T) {
	app := newTestApp(t, nil)

	for i := 0; i < 100; i++ {
		app.deliver(domain.SessionSnapshot{Query: "q"})
	}

	assert.Len(t, app.snapshots, 1)
}

func TestApp_ResultSelectedOpensPreview(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.ResultSelected{Result: domain.SearchResult{PageID: "p1", PageTitle: "Groceries", FullContent: "milk"}})

	assert.Equal(t, messages.ViewPreview, app.CurrentView())
	assert.Contains(t, app.View(), "Groceries")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app.Update(runCmd(t, cmd))

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, messages.ViewSearch, app.CurrentView(), "? is typed while the input has focus")
	assert.Equal(t, "?", app.Query())

	app.Update(messages.SnapshotUpdated{Snapshot: domain.SessionSnapshot{
		Query: "?", Results: []domain.SearchResult{{PageID: "p1"}}, State: domain.SessionResolved, HasSearched: true,
	}})
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "rebuild index")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_Rebuild(t *testing.T) {
	session := newFakeSession()
	indexer := &fakeIndexer{stats: domain.IndexStats{Pages: 2, Records: 5}}
	app := newTestApp(t, &Ports{Session: session, Indexer: indexer, MasterKey: []byte("k")})
	app.Update(messages.NotesChanged{PageID: "p1"})
	require.True(t, app.Stale())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	msg := runCmd(t, cmd)
	app.Update(msg)

	assert.Equal(t, 1, indexer.rebuilt)
	assert.Equal(t, []byte("k"), indexer.keys[0])
	assert.False(t, app.Stale())
	assert.Equal(t, 1, session.enters, "the current query is re-run")
	assert.Contains(t, app.View(), "Indexed 2 pages, 5 records")
}

func TestApp_RebuildFailure(t *testing.T) {
	session := newFakeSession()
	indexer := &fakeIndexer{err: errors.New("disk full")}
	app := newTestApp(t, &Ports{Session: session, Indexer: indexer})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	app.Update(runCmd(t, cmd))

	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), "disk full")
	assert.Equal(t, 0, session.enters)
}

func TestApp_RebuildWithoutIndexer(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	app.Update(runCmd(t, cmd))

	assert.ErrorIs(t, app.Err(), ErrRebuildUnavailable)
}

func TestApp_WatcherMarksIndexStale(t *testing.T) {
	watcher := &fakeWatcher{ch: make(chan string, 1)}
	app := newTestApp(t, &Ports{Session: newFakeSession(), Watcher: watcher})
	app.Init()
	require.NotNil(t, app.changes)

	watcher.ch <- "p7"
	msg := runCmd(t, waitForChange(app.changes))
	_, cmd := app.Update(msg)

	assert.Equal(t, messages.NotesChanged{PageID: "p7"}, msg)
	assert.True(t, app.Stale())
	assert.NotNil(t, cmd)

	close(watcher.ch)
	assert.Nil(t, runCmd(t, waitForChange(app.changes)))
}

func TestApp_WatcherFailureIsNotFatal(t *testing.T) {
	watcher := &fakeWatcher{err: errors.New("inotify limit")}
	app := newTestApp(t, &Ports{Session: newFakeSession(), Watcher: watcher})

	assert.NotNil(t, app.Init())
	assert.Nil(t, app.changes)
}

func TestApp_Close(t *testing.T) {
	session := newFakeSession()
	watcher := &fakeWatcher{ch: make(chan string)}
	app := newTestApp(t, &Ports{Session: session, Watcher: watcher})
	app.Init()

	require.NoError(t, app.Close(context.Background()))

	assert.Equal(t, 0, session.subscriberCount())
	assert.Equal(t, 1, session.closed)
	assert.Error(t, watcher.ctx.Err(), "watch context is cancelled")
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Session: newFakeSession()})
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Same(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Sercha Notes")
}
