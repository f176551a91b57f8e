// Package sidecar names and reads the artifacts stored next to a recorded
// media file: the recording metadata, the detector segment lists, the EDL and
// its done marker. Every sidecar path is the full media filename followed by
// a suffix, so "a.ts" owns "a.ts.metadata.json".
package sidecar

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"cutlist/internal/fileutil"
)

const (
	MetadataSuffix = ".metadata.json"
	SegmentsSuffix = ".segments.json"
	EDLSuffix      = ".yml"
	DoneSuffix     = ".yml.done"
)

func MetadataPath(mediaPath string) string { return mediaPath + MetadataSuffix }

func SegmentsPath(mediaPath string) string { return mediaPath + SegmentsSuffix }

func EDLPath(mediaPath string) string { return mediaPath + EDLSuffix }

// Stem returns the media filename without its extension.
func Stem(mediaPath string) string {
	base := filepath.Base(mediaPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Metadata is the recording description written by the capture pipeline.
// Fields other than the three consumed by title resolution are kept in Extra.
type Metadata struct {
	Title       string                     `json:"title"`
	SubTitle    string                     `json:"sub_title"`
	Description string                     `json:"description"`
	Extra       map[string]json.RawMessage `json:"-"`
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := map[string]*string{"title": &m.Title, "sub_title": &m.SubTitle, "description": &m.Description}
	for key, target := range fields {
		value, ok := raw[key]
		if !ok {
			continue
		}
		delete(raw, key)
		if string(value) == "null" {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			return fmt.Errorf("metadata field %s: %w", key, err)
		}
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

// LoadMetadata reads the metadata sidecar of mediaPath. A missing file
// returns nil without error.
func LoadMetadata(mediaPath string) (*Metadata, error) {
	data, err := fileutil.ReadOptional(MetadataPath(mediaPath))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", MetadataPath(mediaPath), err)
	}
	return &md, nil
}
