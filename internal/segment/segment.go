package segment

import (
	"cmp"
	"fmt"
	"math"
)

// Segment is a closed time interval expressed in seconds. The zero value is
// the empty interval at 0.
type Segment struct {
	start float64
	end   float64
}

// New validates and builds a Segment. Bounds are rounded to the millisecond,
// the resolution of the text codec, so a segment survives an encode/decode
// round trip unchanged.
func New(start, end float64) (Segment, error) {
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return Segment{}, fmt.Errorf("%w: non-finite bound", ErrInvalidInterval)
	}
	start, end = roundMillis(start), roundMillis(end)
	if start < 0 {
		return Segment{}, fmt.Errorf("%w: start %s is negative", ErrInvalidInterval, FormatPosition(start))
	}
	if start > end {
		return Segment{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidInterval, FormatPosition(start), FormatPosition(end))
	}
	return Segment{start: start, end: end}, nil
}

func roundMillis(seconds float64) float64 {
	r := math.Round(seconds*1000) / 1000
	if r == 0 {
		return 0
	}
	return r
}

// MustNew is New for literals known to be valid. It panics otherwise.
func MustNew(start, end float64) Segment {
	s, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Segment) Start() float64 { return s.start }

func (s Segment) End() float64 { return s.end }

// Duration returns end - start.
func (s Segment) Duration() float64 { return s.end - s.start }

// WithStart returns a copy of s starting at position. The end is unchanged.
func (s Segment) WithStart(position float64) (Segment, error) {
	return New(position, s.end)
}

// WithEnd returns a copy of s ending at position. The start is unchanged.
func (s Segment) WithEnd(position float64) (Segment, error) {
	return New(s.start, position)
}

// Overlaps reports whether two distinct segments share at least one instant.
// Touching endpoints count as overlapping. A segment never overlaps itself.
func (s Segment) Overlaps(other Segment) bool {
	if s == other {
		return false
	}
	return s.start <= other.end && other.start <= s.end
}

// Within reports whether s lies entirely inside [start, end].
func (s Segment) Within(start, end float64) bool {
	return s.start >= start && s.end <= end
}

// Compare orders segments by start, then by end.
func Compare(a, b Segment) int {
	if c := cmp.Compare(a.start, b.start); c != 0 {
		return c
	}
	return cmp.Compare(a.end, b.end)
}

// String renders the segment as one list entry without the trailing comma.
func (s Segment) String() string {
	return FormatPosition(s.start) + "-" + FormatPosition(s.end)
}
