package session

import (
	"fmt"
	"path/filepath"

	"cutlist/internal/edl"
	"cutlist/internal/media"
	"cutlist/internal/segment"
	"cutlist/internal/sidecar"
	"cutlist/internal/title"
)

// BuildMedia assembles the review state of the media at path from its
// sidecars. snap must list the media's directory.
//
// When an EDL-like file already exists, its filename and skip_backup are
// reused; otherwise the title is resolved, falling back to the placeholder.
// The first detector list seeds the segment set.
func BuildMedia(path string, snap *media.Snapshot, titles *title.Context) (*Media, error) {
	name := filepath.Base(path)
	m := &Media{
		Path:  path,
		Stem:  sidecar.Stem(name),
		State: snap.State(name),
	}

	if family := snap.EDLFamily(name); len(family) > 0 {
		doc, err := edl.Load(family[0])
		if err != nil {
			return nil, fmt.Errorf("build media %s: %w", name, err)
		}
		m.Title = doc.Filename
		m.SkipBackup = doc.SkipBackup
	}
	if m.Title == "" {
		md, err := sidecar.LoadMetadata(path)
		if err != nil {
			return nil, fmt.Errorf("build media %s: %w", name, err)
		}
		res, err := title.ResolveOrPlaceholder(path, md, titles)
		if err != nil {
			return nil, fmt.Errorf("build media %s: %w", name, err)
		}
		m.Title = res.Title
	}
	m.Title = edl.OutputFilename(m.Title)

	raw, err := sidecar.LoadDetectorResults(path)
	if err != nil {
		return nil, fmt.Errorf("build media %s: %w", name, err)
	}
	m.Imported = raw.Normalized()

	m.Segments = segment.NewSet()
	if _, first, ok := m.Imported.First(); ok {
		set, err := segment.DecodeSet(first)
		if err != nil {
			return nil, fmt.Errorf("build media %s: first detector list: %w", name, err)
		}
		m.Segments = set
	}
	return m, nil
}

// BuildMedias builds every media selected by root, using one directory
// snapshot so that states are consistent with each other.
func BuildMedias(root, ext string, titles *title.Context) ([]*Media, error) {
	paths, err := media.List(root, ext)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}
	snap, err := media.TakeSnapshot(filepath.Dir(paths[0]))
	if err != nil {
		return nil, err
	}
	medias := make([]*Media, 0, len(paths))
	for _, path := range paths {
		m, err := BuildMedia(path, snap, titles)
		if err != nil {
			return nil, err
		}
		medias = append(medias, m)
	}
	sortMedias(medias)
	return medias, nil
}
