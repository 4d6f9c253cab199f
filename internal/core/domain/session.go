package domain

// SessionState is the state of an interactive search session.
type SessionState string

// Session states.
const (
	// SessionIdle means no query is active.
	SessionIdle SessionState = "idle"

	// SessionPending means a debounce timer is armed for the current query.
	SessionPending SessionState = "pending"

	// SessionSearching means the engine has been invoked and not yet answered.
	SessionSearching SessionState = "searching"

	// SessionResolved means results for the current query are available.
	SessionResolved SessionState = "resolved"
)

// String returns the string representation.
func (s SessionState) String() string {
	return string(s)
}

// SessionSnapshot is the reactive state exposed to the presentation layer.
type SessionSnapshot struct {
	Query       string
	Results     []SearchResult
	IsSearching bool
	HasSearched bool
	State       SessionState
}
