package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cutlist/internal/media"
	"cutlist/internal/segment"
	"cutlist/internal/sidecar"
)

const mediaColumns = "stem, filepath, state, title, skip_backup, imported_segments_json, segments, updated_at"

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id         string
		rootPath   string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &rootPath, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	sess := &Session{ID: id, RootPath: rootPath}
	if created, err := parseTimeString(createdRaw); err == nil {
		sess.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		sess.UpdatedAt = updated
	}
	return sess, nil
}

func scanMedia(scanner interface{ Scan(dest ...any) error }) (*Media, error) {
	var (
		stem         string
		path         string
		stateRaw     string
		title        string
		skipBackup   int64
		importedJSON string
		segmentsRaw  string
		updatedRaw   string
	)
	if err := scanner.Scan(&stem, &path, &stateRaw, &title, &skipBackup, &importedJSON, &segmentsRaw, &updatedRaw); err != nil {
		return nil, err
	}
	state, err := media.ParseState(stateRaw)
	if err != nil {
		return nil, fmt.Errorf("media %s: %w", stem, err)
	}
	imported := &sidecar.DetectorResults{}
	if importedJSON != "" {
		if err := json.Unmarshal([]byte(importedJSON), imported); err != nil {
			return nil, fmt.Errorf("media %s: decode imported segments: %w", stem, err)
		}
	}
	set, err := segment.DecodeSet(segmentsRaw)
	if err != nil {
		return nil, fmt.Errorf("media %s: decode segments: %w", stem, err)
	}
	m := &Media{
		Path:       path,
		Stem:       stem,
		State:      state,
		Title:      title,
		SkipBackup: skipBackup != 0,
		Imported:   imported,
		Segments:   set,
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		m.UpdatedAt = updated
	}
	return m, nil
}

// mediaArgs returns the column values of m in mediaColumns order.
func mediaArgs(m *Media, now time.Time) ([]any, error) {
	imported := m.Imported
	if imported == nil {
		imported = &sidecar.DetectorResults{}
	}
	importedJSON, err := json.Marshal(imported)
	if err != nil {
		return nil, fmt.Errorf("encode imported segments: %w", err)
	}
	return []any{
		m.Stem,
		m.Path,
		string(m.State),
		m.Title,
		boolToInt(m.SkipBackup),
		string(importedJSON),
		m.Segments.String(),
		formatTime(now),
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
