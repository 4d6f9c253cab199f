// Package search provides the main search view for the TUI.
package search

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-notes/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
)

// View is the search view: query input, result list and status bar.
// Typing feeds the session, which debounces and answers through
// messages.SnapshotUpdated.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	session driving.SearchSession

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing, false = navigating results
	snapshot   domain.SessionSnapshot
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SearchSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		session:    session,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.session == nil {
			v.setError(ErrNoSession)
			return v, nil
		}
		if v.focusInput {
			return v.handleInputKey(msg)
		}
		return v.handleResultsKey(msg)

	case messages.SnapshotUpdated:
		v.applySnapshot(msg.Snapshot)
		return v, nil

	case messages.IndexOpened:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateReady)
		return v, nil

	case messages.IndexRebuilt:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.statusbar.SetStale(false)
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(rebuiltMessage(msg.Stats))
		return v, nil

	case messages.NotesChanged:
		v.statusbar.SetStale(true)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd, _ = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.session.HandleEnterKey()
		return v, nil
	case "tab", "down":
		if !v.list.IsEmpty() {
			v.setFocusInput(false)
		}
		return v, nil
	case "esc", "ctrl+l":
		v.clear()
		return v, nil
	}

	var cmd tea.Cmd
	var changed bool
	v.input, cmd, changed = v.input.Update(msg)
	if changed {
		v.session.HandleQueryChange(v.input.Value())
	}
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "tab", "esc", "/":
		return v, v.setFocusInput(true)
	case "enter":
		result := v.list.SelectedResult()
		if result == nil {
			return v, nil
		}
		selected := *result
		return v, func() tea.Msg { return messages.ResultSelected{Result: selected} }
	case "s":
		if result := v.list.SelectedResult(); result != nil {
			v.setScope(result.RootID)
		}
		return v, nil
	case "a":
		v.setScope("")
		return v, nil
	case "q":
		return v, func() tea.Msg { return messages.Quit{} }
	case "ctrl+l":
		v.clear()
		return v, v.setFocusInput(true)
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) applySnapshot(snap domain.SessionSnapshot) {
	v.snapshot = snap
	v.list.SetResults(snap.Query, snap.Results)
	v.statusbar.SetResults(len(snap.Results), snap.HasSearched)

	if v.err != nil && snap.State != domain.SessionResolved {
		return
	}
	v.err = nil
	switch {
	case snap.IsSearching:
		v.statusbar.SetState(status.StateSearching)
	case snap.State == domain.SessionResolved:
		v.statusbar.SetState(status.StateResults)
	default:
		v.statusbar.SetState(status.StateReady)
	}
	if v.list.IsEmpty() && !v.focusInput {
		v.setFocusInput(true)
	}
}

func (v *View) clear() {
	v.input.Reset()
	v.list.SetResults("", nil)
	v.session.ClearSearch()
}

func (v *View) setScope(rootID string) {
	v.input.SetScope(rootID)
	v.session.SetScope(rootID)
}

func (v *View) setFocusInput(focus bool) tea.Cmd {
	v.focusInput = focus
	v.statusbar.SetNavigating(!focus)
	if focus {
		return v.input.Focus()
	}
	v.input.Blur()
	return nil
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func rebuiltMessage(stats domain.IndexStats) string {
	return "Indexed " + pluralise(stats.Pages, "page") + ", " + pluralise(stats.Records, "record")
}

func pluralise(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}
	return s
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Sercha Notes"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the text in the query input.
func (v *View) Query() string {
	return v.input.Value()
}

// Scope returns the workspace searches are restricted to.
func (v *View) Scope() string {
	return v.input.Scope()
}

// Results returns the results currently listed.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.SearchResult {
	return v.list.SelectedResult()
}

// Snapshot returns the last session state applied to the view.
func (v *View) Snapshot() domain.SessionSnapshot {
	return v.snapshot
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Stale reports whether the notes changed since the index was built.
func (v *View) Stale() bool {
	return v.statusbar.Stale()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
