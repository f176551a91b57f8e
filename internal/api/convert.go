package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cutlist/internal/segment"
	"cutlist/internal/session"
	"cutlist/internal/sidecar"
)

// FromSegment converts a segment to its API representation.
func FromSegment(seg segment.Segment) Segment {
	return Segment{Start: seg.Start(), End: seg.End(), Duration: seg.Duration()}
}

// FromSet converts every member of set, in order.
func FromSet(set *segment.Set) []Segment {
	members := set.Segments()
	out := make([]Segment, 0, len(members))
	for _, seg := range members {
		out = append(out, FromSegment(seg))
	}
	return out
}

// ToSegment validates the DTO back into a segment. Duration is ignored.
func (s Segment) ToSegment() (segment.Segment, error) {
	return segment.New(s.Start, s.End)
}

// ToSegments converts a selection, failing on the first invalid entry.
func ToSegments(in []Segment) ([]segment.Segment, error) {
	out := make([]segment.Segment, 0, len(in))
	for i, dto := range in {
		seg, err := dto.ToSegment()
		if err != nil {
			return nil, fmt.Errorf("segments[%d]: %w", i, err)
		}
		out = append(out, seg)
	}
	return out, nil
}

// ParseSpan parses the "<start>-<end>" path form of a segment, with both
// bounds in seconds.
func ParseSpan(value string) (segment.Segment, error) {
	startText, endText, ok := strings.Cut(value, "-")
	if !ok {
		return segment.Segment{}, fmt.Errorf("segment %q must be <start>-<end>", value)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(startText), 64)
	if err != nil {
		return segment.Segment{}, fmt.Errorf("segment start %q: %w", startText, err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(endText), 64)
	if err != nil {
		return segment.Segment{}, fmt.Errorf("segment end %q: %w", endText, err)
	}
	return segment.New(start, end)
}

// FromMedia converts a session media to its API representation.
func FromMedia(m *session.Media) Media {
	if m == nil {
		return Media{}
	}
	imported := m.Imported
	if imported == nil {
		imported = &sidecar.DetectorResults{}
	}
	return Media{
		Filepath:         m.Path,
		Stem:             m.Stem,
		State:            string(m.State),
		Title:            m.Title,
		SkipBackup:       m.SkipBackup,
		ImportedSegments: imported,
		Segments:         FromSet(m.Segments),
		UpdatedAt:        formatTime(m.UpdatedAt),
	}
}

// FromSession converts a session and its medias.
func FromSession(s *session.Session) Session {
	if s == nil {
		return Session{}
	}
	dto := Session{
		ID:        s.ID,
		RootPath:  s.RootPath,
		CreatedAt: formatTime(s.CreatedAt),
		UpdatedAt: formatTime(s.UpdatedAt),
		Medias:    make(map[string]Media, len(s.Medias)),
	}
	for _, m := range s.Medias {
		dto.Medias[m.Stem] = FromMedia(m)
	}
	return dto
}

// FromSummaries converts a session listing.
func FromSummaries(summaries []session.Summary) []SessionSummary {
	out := make([]SessionSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, SessionSummary{
			ID:         s.ID,
			RootPath:   s.RootPath,
			CreatedAt:  formatTime(s.CreatedAt),
			UpdatedAt:  formatTime(s.UpdatedAt),
			MediaCount: s.MediaCount,
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
