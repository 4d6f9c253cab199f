package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown block type or storage backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIndexUnavailable indicates the index store could not be read or written.
	// The query path degrades to an empty result set when this occurs.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrNoteStoreUnavailable indicates the note store could not supply pages.
	ErrNoteStoreUnavailable = errors.New("note store unavailable")

	// ErrSessionClosed indicates an operation on a search session that is not open.
	ErrSessionClosed = errors.New("search session closed")

	// ErrQueryTooShort indicates a query below the minimum length.
	// It is never surfaced as a failure: short queries yield no results.
	ErrQueryTooShort = errors.New("query too short")
)
