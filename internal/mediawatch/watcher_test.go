package mediawatch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cutlist/internal/media"
	"cutlist/internal/mediawatch"
	"cutlist/internal/testsupport"
)

func waitFor(t *testing.T, changes <-chan mediawatch.Change, match func(mediawatch.Change) bool) mediawatch.Change {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case change := <-changes:
			if match(change) {
				return change
			}
		case <-deadline:
			t.Fatal("timed out waiting for change")
		}
	}
}

func TestWatcherReportsStateTransitions(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteMedia(t, dir, "Channel 1_Movie_2022-12-05-2203-20.ts")

	w, err := mediawatch.New(dir, mediawatch.Options{Extension: ".ts", Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := w.States()[path]; got != media.StateWaitingMetadata {
		t.Fatalf("initial state = %q", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan mediawatch.Change, 16)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(c mediawatch.Change) { changes <- c }) }()

	testsupport.WriteMetadata(t, path, "Movie", "", "")
	change := waitFor(t, changes, func(c mediawatch.Change) bool { return c.Path == path })
	if change.Previous != media.StateWaitingMetadata || change.Current != media.StateNoSegment {
		t.Fatalf("unexpected change: %#v", change)
	}

	testsupport.WriteSegments(t, path, `{}`)
	waitFor(t, changes, func(c mediawatch.Change) bool { return c.Current == media.StateWaitingSegmentReview })

	other := testsupport.WriteMedia(t, dir, "Channel 2_Show_2022-12-05-2203-20.ts")
	added := waitFor(t, changes, func(c mediawatch.Change) bool { return c.Path == other })
	if added.Previous != "" || added.Current != media.StateWaitingMetadata {
		t.Fatalf("unexpected new media change: %#v", added)
	}

	if err := os.Remove(other); err != nil {
		t.Fatalf("remove: %v", err)
	}
	removed := waitFor(t, changes, func(c mediawatch.Change) bool { return c.Path == other && c.Removed })
	if removed.Stem != "Channel 2_Show_2022-12-05-2203-20" {
		t.Fatalf("stem = %q", removed.Stem)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestNewFailsForMissingDir(t *testing.T) {
	if _, err := mediawatch.New(filepath.Join(t.TempDir(), "missing"), mediawatch.Options{}); err == nil {
		t.Fatal("expected error for missing dir")
	}
}
