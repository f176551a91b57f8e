package segment

import "errors"

var (
	// ErrInvalidInterval reports a segment whose start lies after its end, or
	// a negative or non-finite bound.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrOverlapRejected reports an add or edit that would break the
	// no-overlap invariant.
	ErrOverlapRejected = errors.New("segment overlaps an existing segment")
	// ErrInvalidEdit wraps ErrOverlapRejected when an edit target conflicts
	// with the remaining members.
	ErrInvalidEdit = errors.New("invalid edit")
	// ErrNotFound reports a remove, edit or merge target absent from the set.
	ErrNotFound = errors.New("segment not found")
	// ErrInsufficientSelection reports a merge with fewer than two segments.
	ErrInsufficientSelection = errors.New("at least two segments are required")
	// ErrMalformedList reports text that does not follow the list grammar.
	ErrMalformedList = errors.New("malformed segment list")
)
