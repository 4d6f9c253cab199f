package tui

import "errors"

// ErrMissingSession is returned when the search session is not provided.
var ErrMissingSession = errors.New("tui: search session is required")

// ErrRebuildUnavailable is returned when a rebuild is requested without an indexer.
var ErrRebuildUnavailable = errors.New("tui: index rebuild is not available")
