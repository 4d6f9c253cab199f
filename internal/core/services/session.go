package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-notes/internal/logger"
	"github.com/custodia-labs/sercha-notes/internal/metrics"
)

// Ensure SearchSession implements the interface.
var _ driving.SearchSession = (*SearchSession)(nil)

// SearchSession drives interactive search for one user.
//
// Query changes are debounced; only the last change within the quiet period
// reaches the engine. Every engine call carries a request token, and a
// response is applied only while its token is the newest issued and its
// query still matches the current one.
type SearchSession struct {
	id             string
	engine         driving.SearchService
	indexer        driving.IndexService
	masterKey      []byte
	debounce       time.Duration
	minQueryLength int
	maxResults     int
	clock          clock.Clock
	warn           rate.Sometimes

	mu          sync.Mutex
	open        bool
	ctx         context.Context
	cancel      context.CancelFunc
	query       string
	scope       string
	results     []domain.SearchResult
	state       domain.SessionState
	hasSearched bool
	timer       *clock.Timer
	timerGen    uint64
	building    chan struct{}
	token       uint64
	subscribers map[int]func(domain.SessionSnapshot)
	nextSub     int

	// publishMu orders snapshot delivery.
	publishMu sync.Mutex
}

// NewSearchSession creates a closed session.
func NewSearchSession(
	engine driving.SearchService,
	indexer driving.IndexService,
	settings domain.SearchSettings,
	masterKey []byte,
) *SearchSession {
	minLen := settings.MinQueryLength
	if minLen < 1 {
		minLen = domain.DefaultSearchSettings().MinQueryLength
	}
	return &SearchSession{
		id:             uuid.NewString(),
		engine:         engine,
		indexer:        indexer,
		masterKey:      masterKey,
		debounce:       settings.Debounce,
		minQueryLength: minLen,
		maxResults:     settings.MaxResults,
		clock:          clock.New(),
		warn:           rate.Sometimes{First: 3, Interval: 30 * time.Second},
		state:          domain.SessionIdle,
		subscribers:    make(map[int]func(domain.SessionSnapshot)),
	}
}

// SetClock replaces the clock driving the debounce timer.
// It must be called before Open.
func (s *SearchSession) SetClock(c clock.Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

// ID returns the session identifier used in logs.
func (s *SearchSession) ID() string {
	return s.id
}

// Open builds the index. The session accepts queries even when the build
// fails part way; the error is returned so callers can report it.
// The build runs under the session context, so Close cancels it.
func (s *SearchSession) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.open {
		s.mu.Unlock()
		return nil
	}
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.open = true
	building := make(chan struct{})
	s.building = building
	buildCtx, stopBuild := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(s.ctx, stopBuild)
	s.mu.Unlock()

	defer func() {
		stopAfter()
		stopBuild()
		close(building)
	}()

	logger.Info("Session %s: opening", s.id)
	stats, err := s.indexer.InitializeSearchIndex(buildCtx, s.masterKey)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Session %s: index build cancelled", s.id)
		} else {
			logger.Error("Session %s: index build failed: %v", s.id, err)
		}
		return fmt.Errorf("opening session: %w", err)
	}
	logger.Info("Session %s: %d pages, %d records", s.id, stats.Pages, stats.Records)
	return nil
}

// Close resets the session and clears the index. A build still running
// from Open is cancelled and waited for before the index is cleared.
func (s *SearchSession) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return nil
	}
	s.open = false
	s.stopTimerLocked()
	s.token++
	s.resetLocked()
	s.cancel()
	building := s.building
	s.building = nil
	s.mu.Unlock()
	s.publish()

	logger.Info("Session %s: closing", s.id)
	if building != nil {
		select {
		case <-building:
		case <-ctx.Done():
			return fmt.Errorf("closing session: %w", ctx.Err())
		}
	}
	if err := s.indexer.ClearSearchIndex(ctx); err != nil {
		logger.Error("Session %s: clearing index: %v", s.id, err)
		return fmt.Errorf("closing session: %w", err)
	}
	return nil
}

// HandleQueryChange records the new query text. Short queries clear the
// results at once; longer ones re-arm the debounce timer. Responses to
// searches issued before the change are discarded.
func (s *SearchSession) HandleQueryChange(text string) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		s.warnClosed("query change")
		return
	}

	s.query = text
	s.stopTimerLocked()
	s.token++

	if !s.searchableLocked() {
		s.results = nil
		s.hasSearched = false
		s.state = domain.SessionIdle
		s.mu.Unlock()
		s.publish()
		return
	}

	s.state = domain.SessionPending
	gen := s.timerGen
	s.timer = s.clock.AfterFunc(s.debounce, func() { s.fire(gen) })
	s.mu.Unlock()
	s.publish()
}

// HandleEnterKey searches immediately, skipping the debounce.
func (s *SearchSession) HandleEnterKey() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		s.warnClosed("enter")
		return
	}
	s.stopTimerLocked()
	if !s.searchableLocked() {
		s.mu.Unlock()
		return
	}
	s.startSearchLocked()
	s.mu.Unlock()
	s.publish()
}

// ClearSearch empties the query and results.
func (s *SearchSession) ClearSearch() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.token++
	s.resetLocked()
	s.mu.Unlock()
	s.publish()
}

// SetScope restricts searches to one workspace. An empty root searches
// everything. An active query is re-run under the new scope.
func (s *SearchSession) SetScope(rootID string) {
	s.mu.Lock()
	if s.scope == rootID {
		s.mu.Unlock()
		return
	}
	s.scope = rootID
	if !s.open || s.state == domain.SessionIdle || !s.searchableLocked() {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	s.startSearchLocked()
	s.mu.Unlock()
	s.publish()
}

// Snapshot returns the current presentation state.
func (s *SearchSession) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive every state change. fn runs on the
// goroutine that changed the state and must not call back into the session.
func (s *SearchSession) Subscribe(fn func(domain.SessionSnapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// fire runs when the debounce timer expires.
func (s *SearchSession) fire(gen uint64) {
	s.mu.Lock()
	if !s.open || gen != s.timerGen || s.state != domain.SessionPending {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.startSearchLocked()
	s.mu.Unlock()
	s.publish()
}

// startSearchLocked issues a new token and runs the engine for the
// current query on its own goroutine.
func (s *SearchSession) startSearchLocked() {
	s.token++
	token := s.token
	query := s.query
	opts := domain.SearchOptions{Scope: s.scope, MaxResults: s.maxResults}
	ctx := s.ctx
	s.state = domain.SessionSearching

	go s.run(ctx, token, query, opts)
}

func (s *SearchSession) run(ctx context.Context, token uint64, query string, opts domain.SearchOptions) {
	results, err := s.engine.PerformSearch(ctx, query, opts)

	s.mu.Lock()
	if !s.open || token != s.token || query != s.query {
		s.mu.Unlock()
		metrics.StaleResponsesTotal.Inc()
		logger.Debug("Session %s: discarding stale response for %q", s.id, query)
		return
	}
	if err != nil {
		s.warn.Do(func() {
			logger.Warn("Session %s: search %q failed: %v", s.id, query, err)
		})
		results = nil
	}
	s.results = results
	s.hasSearched = true
	s.state = domain.SessionResolved
	s.mu.Unlock()
	s.publish()
}

func (s *SearchSession) searchableLocked() bool {
	return utf8.RuneCountInString(s.query) >= s.minQueryLength
}

// stopTimerLocked cancels the pending debounce. The generation bump also
// neutralises a timer whose callback is already running.
func (s *SearchSession) stopTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *SearchSession) resetLocked() {
	s.query = ""
	s.results = nil
	s.hasSearched = false
	s.state = domain.SessionIdle
}

func (s *SearchSession) snapshotLocked() domain.SessionSnapshot {
	results := make([]domain.SearchResult, len(s.results))
	copy(results, s.results)
	return domain.SessionSnapshot{
		Query:       s.query,
		Results:     results,
		IsSearching: s.state == domain.SessionPending || s.state == domain.SessionSearching,
		HasSearched: s.hasSearched,
		State:       s.state,
	}
}

// publish delivers the current snapshot to every subscriber.
func (s *SearchSession) publish() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	snap := s.snapshotLocked()
	subs := make([]func(domain.SessionSnapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *SearchSession) warnClosed(op string) {
	s.warn.Do(func() {
		logger.Warn("Session %s: %s ignored: %v", s.id, op, domain.ErrSessionClosed)
	})
}
