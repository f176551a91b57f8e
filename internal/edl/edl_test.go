package edl_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cutlist/internal/edl"
	"cutlist/internal/segment"
)

func TestCommitWritesDocument(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "Channel 1_Movie Name_2022-12-05-2203-20.ts")
	set := segment.NewSet(segment.MustNew(10, 20), segment.MustNew(30.5, 45))

	path, err := edl.Commit(source, "Movie Name.mp4", set, true)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if path != source+".yml" {
		t.Fatalf("unexpected path: got %q want %q", path, source+".yml")
	}

	doc, err := edl.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := edl.Document{
		Filename:   "Movie Name.mp4",
		Segments:   "00:00:10.000-00:00:20.000,00:00:30.500-00:00:45.000,",
		SkipBackup: true,
	}
	if doc != want {
		t.Fatalf("unexpected document: got %+v want %+v", doc, want)
	}
	loaded, err := doc.Set()
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if loaded.String() != set.String() {
		t.Fatalf("segments changed: got %q want %q", loaded.String(), set.String())
	}
}

func TestCommitReplacesPreviousValidation(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.ts")
	if _, err := edl.Commit(source, "First.mp4", segment.NewSet(segment.MustNew(0, 1)), false); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	if _, err := edl.Commit(source, "Second.mp4", segment.NewSet(segment.MustNew(2, 3)), false); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	doc, err := edl.Load(source + ".yml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Filename != "Second.mp4" || doc.Segments != "00:00:02.000-00:00:03.000," {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestCommitRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		set      *segment.Set
	}{
		{"missing suffix", "Movie Name", segment.NewSet(segment.MustNew(0, 1))},
		{"forbidden character", "Movie/Name.mp4", segment.NewSet(segment.MustNew(0, 1))},
		{"empty filename", ".mp4", segment.NewSet(segment.MustNew(0, 1))},
		{"no segments", "Movie Name.mp4", segment.NewSet()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			source := filepath.Join(dir, "a.ts")
			_, err := edl.Commit(source, tt.filename, tt.set, false)
			if !errors.Is(err, edl.ErrSchemaViolation) {
				t.Fatalf("expected ErrSchemaViolation, got %v", err)
			}
			if _, err := os.Stat(source + ".yml"); !os.IsNotExist(err) {
				t.Fatalf("edl written despite violation: %v", err)
			}
		})
	}
}

func TestValidateAcceptsAccentsAndPunctuation(t *testing.T) {
	doc := edl.Document{
		Filename: "Arrête-moi si tu peux, l'été [VF] (1) #2 & co!.mp4",
		Segments: "00:00:00.00-00:00:01.50,",
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDecodeDefaultsSkipBackup(t *testing.T) {
	doc, err := edl.Decode(strings.NewReader("filename: a.mp4\nsegments: 00:00:00.000-00:00:01.000,\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.SkipBackup {
		t.Fatal("skip_backup should default to false")
	}
	if doc.Segments != "00:00:00.000-00:00:01.000," {
		t.Fatalf("unexpected segments %q", doc.Segments)
	}
}

func TestOutputFilename(t *testing.T) {
	tests := map[string]string{
		"Movie":     "Movie.mp4",
		"Movie.mp4": "Movie.mp4",
		" Movie ":   "Movie.mp4",
		"Movie.ts":  "Movie.ts.mp4",
	}
	for in, want := range tests {
		if got := edl.OutputFilename(in); got != want {
			t.Errorf("OutputFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
