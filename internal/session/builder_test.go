package session_test

import (
	"testing"

	"cutlist/internal/media"
	"cutlist/internal/session"
	"cutlist/internal/testsupport"
	"cutlist/internal/title"
)

const movieName = "Channel 1_Movie Name_2022-12-05-2203-20.ts"

func TestBuildMediasResolvesTitleAndSeedsSegments(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteMedia(t, dir, movieName)
	testsupport.WriteMetadata(t, path, "Movie Name", "", "")
	testsupport.WriteSegments(t, path, `{"auto": "00:00:01.000-00:00:05.000,00:10:00.000-00:20:00.000", "crop": "", "silence": "00:00:02.000-00:00:03.000,"}`)
	testsupport.WriteMedia(t, dir, "notes.txt")

	medias, err := session.BuildMedias(dir, ".ts", title.NewContext(title.Options{}))
	if err != nil {
		t.Fatalf("BuildMedias failed: %v", err)
	}
	if len(medias) != 1 {
		t.Fatalf("expected 1 media, got %d", len(medias))
	}
	m := medias[0]
	if m.Stem != "Channel 1_Movie Name_2022-12-05-2203-20" {
		t.Fatalf("stem = %q", m.Stem)
	}
	if m.Title != "Movie Name.mp4" {
		t.Fatalf("title = %q", m.Title)
	}
	if m.State != media.StateWaitingSegmentReview {
		t.Fatalf("state = %q", m.State)
	}
	if keys := m.Imported.Keys(); len(keys) != 2 || keys[0] != "auto" || keys[1] != "silence" {
		t.Fatalf("imported keys = %v", keys)
	}
	if value, _ := m.Imported.Get("auto"); value != "00:00:01.000-00:00:05.000,00:10:00.000-00:20:00.000," {
		t.Fatalf("auto not normalized: %q", value)
	}
	if m.Segments.Len() != 2 || m.SkipBackup {
		t.Fatalf("unexpected seed: %s skip=%v", m.Segments, m.SkipBackup)
	}
}

func TestBuildMediaPrefersExistingEDL(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteMedia(t, dir, movieName)
	testsupport.WriteMetadata(t, path, "Movie Name", "", "")
	testsupport.WriteSegments(t, path, `{}`)
	testsupport.WriteEDL(t, path, "filename: Edited Title.mp4\nsegments: 00:00:01.000-00:00:02.000,\nskip_backup: true\n")

	snap, err := media.TakeSnapshot(dir)
	if err != nil {
		t.Fatalf("TakeSnapshot failed: %v", err)
	}
	m, err := session.BuildMedia(path, snap, nil)
	if err != nil {
		t.Fatalf("BuildMedia failed: %v", err)
	}
	if m.Title != "Edited Title.mp4" || !m.SkipBackup {
		t.Fatalf("expected EDL values, got title=%q skip=%v", m.Title, m.SkipBackup)
	}
	if m.State != media.StateSegmentReviewed {
		t.Fatalf("state = %q", m.State)
	}
	if m.Segments.Len() != 0 {
		t.Fatalf("expected empty set without detector lists, got %s", m.Segments)
	}
}

func TestBuildMediaUnrecognizedNameUsesPlaceholder(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteMedia(t, dir, "recording.ts")

	medias, err := session.BuildMedias(path, ".ts", nil)
	if err != nil {
		t.Fatalf("BuildMedias failed: %v", err)
	}
	if len(medias) != 1 {
		t.Fatalf("expected the file root itself, got %d medias", len(medias))
	}
	if medias[0].Title != title.DefaultPlaceholder+".mp4" {
		t.Fatalf("title = %q", medias[0].Title)
	}
	if medias[0].State != media.StateWaitingMetadata {
		t.Fatalf("state = %q", medias[0].State)
	}
}
