package media

import (
	"fmt"
	"strings"
)

// State is the processing stage of a recorded media file, derived from the
// sidecar artifacts present next to it.
type State string

const (
	StateWaitingMetadata      State = "waiting_metadata"
	StateNoSegment            State = "no_segment"
	StateWaitingSegmentReview State = "waiting_segment_review"
	StateSegmentReviewed      State = "segment_reviewed"
	StateMediaProcessing      State = "media_processing"
	StateMediaProcessed       State = "media_processed"
)

var allStates = []State{
	StateWaitingMetadata,
	StateNoSegment,
	StateWaitingSegmentReview,
	StateSegmentReviewed,
	StateMediaProcessing,
	StateMediaProcessed,
}

// States lists every state in lifecycle order.
func States() []State {
	out := make([]State, len(allStates))
	copy(out, allStates)
	return out
}

// ParseState converts a stored state name back to a State.
func ParseState(value string) (State, error) {
	normalized := State(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range allStates {
		if s == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown media state %q", value)
}

func (s State) String() string { return string(s) }

// HasEDL reports whether a decision list was already produced for the media,
// whether still pending, in flight or processed.
func (s State) HasEDL() bool {
	switch s {
	case StateSegmentReviewed, StateMediaProcessing, StateMediaProcessed:
		return true
	default:
		return false
	}
}

// Flags records which sidecar artifacts exist for one media file.
type Flags struct {
	HasMetadata bool
	HasSegments bool
	HasEDL      bool
	HasDone     bool
	HasOtherEDL bool
}

// Compute maps sidecar flags to a state. The first matching rule wins:
// missing metadata, missing segments, finalized EDL, done marker, any other
// EDL-family file, and finally waiting for review.
func Compute(f Flags) State {
	switch {
	case !f.HasMetadata:
		return StateWaitingMetadata
	case !f.HasSegments:
		return StateNoSegment
	case f.HasEDL:
		return StateSegmentReviewed
	case f.HasDone:
		return StateMediaProcessed
	case f.HasOtherEDL:
		return StateMediaProcessing
	default:
		return StateWaitingSegmentReview
	}
}
