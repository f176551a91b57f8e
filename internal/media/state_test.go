package media_test

import (
	"os"
	"path/filepath"
	"testing"

	"cutlist/internal/media"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("touch %s: %v", name, err)
		}
	}
}

func TestComputePrecedence(t *testing.T) {
	cases := []struct {
		name  string
		flags media.Flags
		want  media.State
	}{
		{"nothing", media.Flags{}, media.StateWaitingMetadata},
		{"metadata beats everything", media.Flags{HasSegments: true, HasEDL: true, HasDone: true}, media.StateWaitingMetadata},
		{"no segments", media.Flags{HasMetadata: true, HasEDL: true}, media.StateNoSegment},
		{"edl beats done", media.Flags{HasMetadata: true, HasSegments: true, HasEDL: true, HasDone: true}, media.StateSegmentReviewed},
		{"done", media.Flags{HasMetadata: true, HasSegments: true, HasDone: true, HasOtherEDL: true}, media.StateMediaProcessed},
		{"other edl", media.Flags{HasMetadata: true, HasSegments: true, HasOtherEDL: true}, media.StateMediaProcessing},
		{"waiting review", media.Flags{HasMetadata: true, HasSegments: true}, media.StateWaitingSegmentReview},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := media.Compute(tc.flags); got != tc.want {
				t.Fatalf("Compute(%+v) = %s, want %s", tc.flags, got, tc.want)
			}
		})
	}
}

func TestComputeIsTotal(t *testing.T) {
	valid := map[media.State]bool{}
	for _, s := range media.States() {
		valid[s] = true
	}
	for mask := 0; mask < 32; mask++ {
		flags := media.Flags{
			HasMetadata: mask&1 != 0,
			HasSegments: mask&2 != 0,
			HasEDL:      mask&4 != 0,
			HasDone:     mask&8 != 0,
			HasOtherEDL: mask&16 != 0,
		}
		if got := media.Compute(flags); !valid[got] {
			t.Fatalf("Compute(%+v) returned unknown state %q", flags, got)
		}
	}
}

func TestStateOfReadsSidecars(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "Channel 1_Movie Name_2022.ts")
	touch(t, dir, "Channel 1_Movie Name_2022.ts")

	assertState := func(want media.State) {
		t.Helper()
		got, err := media.StateOf(video)
		if err != nil {
			t.Fatalf("StateOf: %v", err)
		}
		if got != want {
			t.Fatalf("StateOf = %s, want %s", got, want)
		}
	}

	assertState(media.StateWaitingMetadata)
	touch(t, dir, "Channel 1_Movie Name_2022.ts.metadata.json")
	assertState(media.StateNoSegment)
	touch(t, dir, "Channel 1_Movie Name_2022.ts.segments.json")
	assertState(media.StateWaitingSegmentReview)
	touch(t, dir, "Channel 1_Movie Name_2022.ts.yml.txt")
	assertState(media.StateWaitingSegmentReview)
	touch(t, dir, "Channel 1_Movie Name_2022.ts.yml.pending")
	assertState(media.StateMediaProcessing)
	touch(t, dir, "Channel 1_Movie Name_2022.ts.yml.done")
	assertState(media.StateMediaProcessed)
	touch(t, dir, "Channel 1_Movie Name_2022.ts.yml")
	assertState(media.StateSegmentReviewed)
}

func TestSnapshotEDLFamily(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.ts", "a.ts.yml", "a.ts.yml.done", "a.ts.metadata.json", "b.ts.yml")
	snap, err := media.TakeSnapshot(dir)
	if err != nil {
		t.Fatalf("TakeSnapshot: %v", err)
	}
	got := snap.EDLFamily("a.ts")
	want := []string{filepath.Join(dir, "a.ts.yml"), filepath.Join(dir, "a.ts.yml.done")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("EDLFamily = %v, want %v", got, want)
	}
}

func TestListSelectsByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.ts", "a.ts", "a.ts.metadata.json", "c.mp4")
	if err := os.Mkdir(filepath.Join(dir, "sub.ts"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := media.List(dir, ".ts")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{filepath.Join(dir, "a.ts"), filepath.Join(dir, "b.ts")}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("List = %v, want %v", got, want)
	}

	single, err := media.List(filepath.Join(dir, "c.mp4"), ".ts")
	if err != nil {
		t.Fatalf("List file: %v", err)
	}
	if len(single) != 1 || single[0] != filepath.Join(dir, "c.mp4") {
		t.Fatalf("expected single file root to be returned as-is, got %v", single)
	}

	if _, err := media.List(filepath.Join(dir, "missing"), ".ts"); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestParseState(t *testing.T) {
	got, err := media.ParseState(" Segment_Reviewed ")
	if err != nil || got != media.StateSegmentReviewed {
		t.Fatalf("ParseState = %q, %v", got, err)
	}
	if !got.HasEDL() {
		t.Fatal("segment_reviewed should report an EDL")
	}
	if _, err := media.ParseState("bogus"); err == nil {
		t.Fatal("expected error for unknown state")
	}
}
