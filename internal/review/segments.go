package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cutlist/internal/edl"
	"cutlist/internal/logging"
	"cutlist/internal/segment"
	"cutlist/internal/services"
	"cutlist/internal/session"
	"cutlist/internal/sidecar"
)

// NewSegmentLength is the duration of a segment created at a position.
const NewSegmentLength = 1.0

// Edge names the bound moved by EditSegment.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// ParseEdge validates an edge name.
func ParseEdge(value string) (Edge, error) {
	switch Edge(strings.ToLower(strings.TrimSpace(value))) {
	case EdgeStart:
		return EdgeStart, nil
	case EdgeEnd:
		return EdgeEnd, nil
	default:
		return "", services.Wrap(services.ErrInvalidRequest, component, "edit segment",
			fmt.Sprintf("edge %q must be start or end", value), nil)
	}
}

// MediaUpdate carries the fields changed by UpdateMedia. Nil fields are left
// as they are.
type MediaUpdate struct {
	Title      *string
	SkipBackup *bool
}

// UpdateMedia changes the output title or the skip_backup flag.
func (s *Service) UpdateMedia(ctx context.Context, id, stem string, update MediaUpdate) (*session.Media, error) {
	return s.mutate(ctx, id, stem, "update media", func(ctx context.Context, m *session.Media) error {
		if update.Title != nil {
			filename := edl.OutputFilename(*update.Title)
			if !edl.ValidFilename(filename) {
				return services.Wrap(services.ErrValidation, component, "update media",
					fmt.Sprintf("title %q is not a valid output filename", filename), nil)
			}
			m.Title = filename
		}
		if update.SkipBackup != nil {
			m.SkipBackup = *update.SkipBackup
		}
		s.logger.InfoContext(ctx, "media updated",
			logging.String("title", m.Title),
			logging.Bool("skip_backup", m.SkipBackup),
			logging.String(logging.FieldEventType, "media_updated"),
		)
		return nil
	})
}

// ImportDetector replaces the current segments with the list stored under
// key. Overlapping entries of the imported list are dropped.
func (s *Service) ImportDetector(ctx context.Context, id, stem, key string) (*session.Media, error) {
	return s.mutate(ctx, id, stem, "import segments", func(ctx context.Context, m *session.Media) error {
		raw, ok := m.Imported.Get(key)
		if !ok {
			return services.Wrap(services.ErrNotFound, component, "import segments",
				fmt.Sprintf("detector key %s not found for %s", key, stem), nil)
		}
		decoded, err := segment.Decode(raw)
		if err != nil {
			return services.Wrap(services.ErrValidation, component, "import segments",
				fmt.Sprintf("detector %s holds a malformed list", key), err)
		}
		set := segment.NewSet()
		dropped := 0
		for _, seg := range decoded {
			if !set.Add(seg) {
				dropped++
			}
		}
		m.Segments = set
		s.logger.InfoContext(ctx, "detector segments imported",
			logging.String("detector_key", key),
			logging.Int("segment_count", set.Len()),
			logging.Int("dropped_overlaps", dropped),
			logging.String(logging.FieldEventType, "segments_imported"),
		)
		if dropped > 0 {
			attrs := logging.DecisionAttrs("overlap_resolution", "dropped",
				fmt.Sprintf("%d entries of %s overlapped an earlier entry", dropped, key))
			attrs = append(attrs, logging.String("detector_key", key))
			s.logger.InfoContext(ctx, "overlapping detector entries dropped", logging.Args(attrs...)...)
		}
		return nil
	})
}

// AddSegment creates a segment of NewSegmentLength starting at position.
// It is rejected when it would overlap an existing segment.
func (s *Service) AddSegment(ctx context.Context, id, stem string, position float64) (*session.Media, error) {
	seg, err := segment.New(position, position+NewSegmentLength)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidRequest, component, "add segment",
			fmt.Sprintf("position %v must be a non-negative number of seconds", position), err)
	}
	return s.mutate(ctx, id, stem, "add segment", func(ctx context.Context, m *session.Media) error {
		if err := m.Segments.AddStrict(seg); err != nil {
			return classify("add segment", err)
		}
		s.logger.InfoContext(ctx, "segment added",
			logging.String("segment", seg.String()),
			logging.String(logging.FieldEventType, "segment_added"),
		)
		return nil
	})
}

// EditSegment moves one edge of target to position.
func (s *Service) EditSegment(ctx context.Context, id, stem string, target segment.Segment, edge Edge, position float64) (*session.Media, error) {
	return s.mutate(ctx, id, stem, "edit segment", func(ctx context.Context, m *session.Media) error {
		var (
			updated segment.Segment
			err     error
		)
		switch edge {
		case EdgeStart:
			updated, err = target.WithStart(position)
		case EdgeEnd:
			updated, err = target.WithEnd(position)
		default:
			return services.Wrap(services.ErrInvalidRequest, component, "edit segment",
				fmt.Sprintf("edge %q must be start or end", edge), nil)
		}
		if err != nil {
			return classify("edit segment", err)
		}
		if err := m.Segments.Edit(target, updated); err != nil {
			return classify("edit segment", err)
		}
		s.logger.InfoContext(ctx, "segment edited",
			logging.String("from", target.String()),
			logging.String("to", updated.String()),
			logging.String("edge", string(edge)),
			logging.String(logging.FieldEventType, "segment_edited"),
		)
		return nil
	})
}

// DeleteSegments removes every selected segment, or none when one of them
// is not a member.
func (s *Service) DeleteSegments(ctx context.Context, id, stem string, selected []segment.Segment) (*session.Media, error) {
	return s.mutate(ctx, id, stem, "delete segments", func(ctx context.Context, m *session.Media) error {
		if err := m.Segments.Remove(selected...); err != nil {
			return classify("delete segments", err)
		}
		s.logger.InfoContext(ctx, "segments deleted",
			logging.Int("segment_count", len(selected)),
			logging.String(logging.FieldEventType, "segments_deleted"),
		)
		return nil
	})
}

// MergeSegments replaces the selected segments, and every member between
// them, with their bounding segment.
func (s *Service) MergeSegments(ctx context.Context, id, stem string, selected []segment.Segment) (*session.Media, error) {
	return s.mutate(ctx, id, stem, "merge segments", func(ctx context.Context, m *session.Media) error {
		merged, err := m.Segments.Merge(selected...)
		if err != nil {
			return classify("merge segments", err)
		}
		s.logger.InfoContext(ctx, "segments merged",
			logging.Int("selected", len(selected)),
			logging.String("merged", merged.String()),
			logging.String(logging.FieldEventType, "segments_merged"),
		)
		return nil
	})
}

// Validate writes the EDL of the media and returns its path. The media
// state is refreshed afterwards, normally to segment_reviewed.
func (s *Service) Validate(ctx context.Context, id, stem string) (string, *session.Media, error) {
	var path string
	m, err := s.mutate(ctx, id, stem, "validate segments", func(ctx context.Context, m *session.Media) error {
		written, err := edl.Commit(m.Path, m.Title, m.Segments, m.SkipBackup)
		if err != nil {
			if errors.Is(err, edl.ErrSchemaViolation) {
				return services.Wrap(services.ErrValidation, component, "validate segments", "EDL content is invalid", err)
			}
			return services.Wrap(services.ErrTransient, component, "validate segments", "write EDL", err)
		}
		path = written
		s.logger.InfoContext(ctx, "segments validated",
			logging.String("edl_path", written),
			logging.String("filename", m.Title),
			logging.Int("segment_count", m.Segments.Len()),
			logging.String(logging.FieldEventType, "segments_validated"),
		)
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return path, m, nil
}

// Snapshot records the current segments as the first entry of the segments
// sidecar and returns the new detector key.
func (s *Service) Snapshot(ctx context.Context, id, stem string) (string, *session.Media, error) {
	var key string
	m, err := s.mutate(ctx, id, stem, "snapshot segments", func(ctx context.Context, m *session.Media) error {
		if m.Segments.Len() == 0 {
			return services.Wrap(services.ErrValidation, component, "snapshot segments", "no segments to record", nil)
		}
		written, err := sidecar.PrependSnapshot(m.Path, m.Segments, s.now())
		if err != nil {
			return services.Wrap(services.ErrTransient, component, "snapshot segments", "write segments sidecar", err)
		}
		results, err := sidecar.LoadDetectorResults(m.Path)
		if err != nil {
			return services.Wrap(services.ErrTransient, component, "snapshot segments", "reload segments sidecar", err)
		}
		m.Imported = results.Normalized()
		key = written
		s.logger.InfoContext(ctx, "segments snapshot recorded",
			logging.String("detector_key", key),
			logging.String(logging.FieldEventType, "segments_snapshot"),
		)
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return key, m, nil
}

// classify tags segment engine errors with the matching services marker.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, segment.ErrOverlapRejected):
		return services.Wrap(services.ErrConflict, component, op, "", err)
	case errors.Is(err, segment.ErrNotFound):
		return services.Wrap(services.ErrNotFound, component, op, "", err)
	case errors.Is(err, segment.ErrInvalidInterval),
		errors.Is(err, segment.ErrInsufficientSelection),
		errors.Is(err, segment.ErrInvalidEdit):
		return services.Wrap(services.ErrInvalidRequest, component, op, "", err)
	default:
		return services.Wrap(services.ErrTransient, component, op, "", err)
	}
}
