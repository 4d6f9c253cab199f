package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/views/preview"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Session snapshots arrive on the session's goroutines. They are passed
// through a single-slot mailbox that always holds the newest snapshot, and
// a command waiting on the mailbox turns each one into a message.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	searchView  *search.View
	previewView *preview.View
	currentView messages.ViewType

	snapshots   chan domain.SessionSnapshot
	unsubscribe func()
	changes     <-chan string
	stopWatch   context.CancelFunc

	width  int
	height int
	ready  bool
}

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		help:        help.New(),
		searchView:  search.NewView(s, km, ports.Session),
		previewView: preview.NewView(s),
		currentView: messages.ViewSearch,
		snapshots:   make(chan domain.SessionSnapshot, 1),
	}, nil
}

// WithContext sets the context used for session and index operations.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model. It subscribes to the session, starts the
// note watcher and builds the index in the background.
func (a *App) Init() tea.Cmd {
	if a.unsubscribe == nil {
		a.unsubscribe = a.ports.Session.Subscribe(a.deliver)
	}

	cmds := []tea.Cmd{
		tea.SetWindowTitle("Sercha Notes"),
		a.searchView.Init(),
		a.openIndex(),
		waitForSnapshot(a.snapshots),
	}

	if a.ports.Watcher != nil && a.changes == nil {
		watchCtx, cancel := context.WithCancel(a.ctx)
		changes, err := a.ports.Watcher.Watch(watchCtx)
		if err != nil {
			cancel()
			logger.Warn("Note watcher unavailable: %v", err)
		} else {
			a.changes = changes
			a.stopWatch = cancel
			cmds = append(cmds, waitForChange(changes))
		}
	}

	return tea.Batch(cmds...)
}

// deliver replaces any undelivered snapshot with snap. It never blocks,
// so the session may publish from inside Update.
func (a *App) deliver(snap domain.SessionSnapshot) {
	for {
		select {
		case a.snapshots <- snap:
			return
		default:
		}
		select {
		case <-a.snapshots:
		default:
		}
	}
}

func waitForSnapshot(ch <-chan domain.SessionSnapshot) tea.Cmd {
	return func() tea.Msg {
		return messages.SnapshotUpdated{Snapshot: <-ch}
	}
}

// waitForChange returns nil once the watcher closes its channel.
func waitForChange(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		pageID, ok := <-ch
		if !ok {
			return nil
		}
		return messages.NotesChanged{PageID: pageID}
	}
}

func (a *App) openIndex() tea.Cmd {
	ctx := a.ctx
	session := a.ports.Session
	return func() tea.Msg {
		return messages.IndexOpened{Err: session.Open(ctx)}
	}
}

func (a *App) rebuildIndex() tea.Cmd {
	if a.ports.Indexer == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrRebuildUnavailable} }
	}
	ctx := a.ctx
	indexer := a.ports.Indexer
	key := a.ports.MasterKey
	return func() tea.Msg {
		stats, err := indexer.InitializeSearchIndex(ctx, key)
		if err != nil {
			err = fmt.Errorf("rebuilding index: %w", err)
		}
		return messages.IndexRebuilt{Stats: stats, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SnapshotUpdated:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, tea.Batch(cmd, waitForSnapshot(a.snapshots))

	case messages.NotesChanged:
		logger.Debug("Note %s changed, index is stale", msg.PageID)
		a.searchView, cmd = a.searchView.Update(msg)
		if a.changes == nil {
			return a, cmd
		}
		return a, tea.Batch(cmd, waitForChange(a.changes))

	case messages.IndexRebuilt:
		a.searchView, cmd = a.searchView.Update(msg)
		if msg.Err == nil {
			a.ports.Session.HandleEnterKey()
		}
		return a, cmd

	case messages.IndexOpened, messages.ErrorOccurred:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ResultSelected:
		a.previewView.SetResult(msg.Result)
		a.currentView = messages.ViewPreview
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+r":
		return a, a.rebuildIndex()
	}

	switch a.currentView {
	case messages.ViewHelp:
		if msg.String() == "esc" || msg.String() == "?" || msg.String() == "q" {
			a.currentView = messages.ViewSearch
		}
		return a, nil

	case messages.ViewPreview:
		a.previewView, cmd = a.previewView.Update(msg)
		return a, cmd

	case messages.ViewSearch:
		if msg.String() == "?" && !a.searchView.InputFocused() {
			a.currentView = messages.ViewHelp
			return a, nil
		}
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewPreview:
		return a.previewView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.searchView.View()
	}
}

func (a *App) viewHelp() string {
	a.help.ShowAll = true
	return a.styles.Title.Render("Help") + "\n\n" +
		a.help.FullHelpView(a.keymap.FullHelp()) + "\n\n" +
		a.styles.Muted.Render("Typing always edits the query; press tab to reach the results.") + "\n\n" +
		a.styles.Help.Render("[esc] back")
}

// Close unsubscribes from the session, stops the watcher and closes the
// session, which clears the index.
func (a *App) Close(ctx context.Context) error {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.stopWatch != nil {
		a.stopWatch()
		a.stopWatch = nil
	}
	return a.ports.Session.Close(ctx)
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Query returns the text in the query input.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the results shown in the search view.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// Err returns the error shown in the search view.
func (a *App) Err() error {
	return a.searchView.Err()
}

// Stale reports whether notes changed since the index was built.
func (a *App) Stale() bool {
	return a.searchView.Stale()
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.searchView.SetDimensions(width, height)
	a.previewView.SetDimensions(width, height)
}
