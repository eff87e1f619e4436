package document

import "errors"

var (
	// ErrVersionConflict indicates a change whose version does not advance the buffer.
	ErrVersionConflict = errors.New("version conflict")

	// ErrRangeOutOfBounds indicates a position or range outside the current text.
	ErrRangeOutOfBounds = errors.New("range out of bounds")

	// ErrAlreadyOpen indicates the document is already open.
	ErrAlreadyOpen = errors.New("document already open")

	// ErrNotOpen indicates the document is not open.
	ErrNotOpen = errors.New("document not open")

	// ErrStaleResult indicates the document moved past the version a result was computed for.
	ErrStaleResult = errors.New("stale result")
)
