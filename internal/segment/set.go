package segment

import (
	"fmt"
	"slices"
)

// Set is an ordered collection of mutually non-overlapping segments.
// The zero value is an empty set ready to use.
type Set struct {
	items []Segment
}

// NewSet builds a set by adding each segment leniently. Segments that would
// overlap an earlier one are dropped.
func NewSet(segments ...Segment) *Set {
	s := &Set{}
	for _, seg := range segments {
		s.Add(seg)
	}
	return s
}

// Len returns the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Segments returns the members ordered by start then end. The returned slice
// is a copy.
func (s *Set) Segments() []Segment {
	if s == nil || len(s.items) == 0 {
		return nil
	}
	return slices.Clone(s.items)
}

// Contains reports whether seg is a member.
func (s *Set) Contains(seg Segment) bool {
	_, ok := s.index(seg)
	return ok
}

// TotalDuration sums member durations.
func (s *Set) TotalDuration() float64 {
	var total float64
	for _, seg := range s.Segments() {
		total += seg.Duration()
	}
	return total
}

// Add inserts seg unless it is already present or overlaps a member. It
// reports whether the set changed. Bulk imports rely on overlaps being
// dropped silently; interactive callers use AddStrict.
func (s *Set) Add(seg Segment) bool {
	return s.AddStrict(seg) == nil
}

// AddStrict inserts seg or returns ErrOverlapRejected with the set unchanged.
// Adding a value that is already a member is also rejected.
func (s *Set) AddStrict(seg Segment) error {
	if conflict, ok := s.conflict(seg, nil); ok {
		return fmt.Errorf("%w: %s conflicts with %s", ErrOverlapRejected, seg, conflict)
	}
	s.insert(seg)
	return nil
}

// Remove deletes every given segment. When any of them is absent nothing is
// removed and ErrNotFound is returned.
func (s *Set) Remove(segs ...Segment) error {
	for _, seg := range segs {
		if !s.Contains(seg) {
			return fmt.Errorf("%w: %s", ErrNotFound, seg)
		}
	}
	for _, seg := range segs {
		if idx, ok := s.index(seg); ok {
			s.items = slices.Delete(s.items, idx, idx+1)
		}
	}
	return nil
}

// Edit replaces old with updated. updated is checked against every member
// except old; on conflict the error matches both ErrInvalidEdit and
// ErrOverlapRejected.
func (s *Set) Edit(old, updated Segment) error {
	idx, ok := s.index(old)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, old)
	}
	if conflict, found := s.conflict(updated, &old); found {
		return fmt.Errorf("%w: %w: %s conflicts with %s", ErrInvalidEdit, ErrOverlapRejected, updated, conflict)
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	s.insert(updated)
	return nil
}

// Merge replaces every member lying within the bounding span of selected with
// one segment covering that span. Members between the selected ones are
// absorbed too. Every selected segment must be a member. A member that
// straddles the span boundary makes the merge fail with ErrOverlapRejected.
func (s *Set) Merge(selected ...Segment) (Segment, error) {
	if len(selected) < 2 {
		return Segment{}, fmt.Errorf("%w: got %d", ErrInsufficientSelection, len(selected))
	}
	start, end := selected[0].start, selected[0].end
	for _, seg := range selected {
		if !s.Contains(seg) {
			return Segment{}, fmt.Errorf("%w: %s", ErrNotFound, seg)
		}
		start = min(start, seg.start)
		end = max(end, seg.end)
	}
	merged := Segment{start: start, end: end}

	kept := make([]Segment, 0, len(s.items))
	for _, member := range s.items {
		if member.Within(start, end) {
			continue
		}
		if member.Overlaps(merged) {
			return Segment{}, fmt.Errorf("%w: %s straddles merged span %s", ErrOverlapRejected, member, merged)
		}
		kept = append(kept, member)
	}
	s.items = kept
	s.insert(merged)
	return merged, nil
}

// String encodes the set with the list grammar.
func (s *Set) String() string {
	return Encode(s.Segments())
}

func (s *Set) index(seg Segment) (int, bool) {
	if s == nil {
		return 0, false
	}
	return slices.BinarySearchFunc(s.items, seg, Compare)
}

func (s *Set) insert(seg Segment) {
	idx, _ := slices.BinarySearchFunc(s.items, seg, Compare)
	s.items = slices.Insert(s.items, idx, seg)
}

// conflict returns the first member equal to or overlapping seg, skipping
// except when provided.
func (s *Set) conflict(seg Segment, except *Segment) (Segment, bool) {
	if s == nil {
		return Segment{}, false
	}
	for _, member := range s.items {
		if except != nil && member == *except {
			continue
		}
		if member == seg || member.Overlaps(seg) {
			return member, true
		}
	}
	return Segment{}, false
}
