package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cutlist/internal/media"
	"cutlist/internal/segment"
	"cutlist/internal/session"
	"cutlist/internal/sidecar"
	"cutlist/internal/testsupport"
)

func sampleMedia(stem string, segs ...segment.Segment) *session.Media {
	imported := &sidecar.DetectorResults{}
	imported.Set("auto", "00:00:01.000-00:00:05.000,")
	return &session.Media{
		Path:     filepath.Join("/pvr", stem+".ts"),
		Stem:     stem,
		State:    media.StateWaitingSegmentReview,
		Title:    stem + ".mp4",
		Imported: imported,
		Segments: segment.NewSet(segs...),
	}
}

func TestCreateAndGetRoundTripsMedias(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	created, err := store.Create(ctx, "/pvr", []*session.Media{
		sampleMedia("b", segment.MustNew(10, 20)),
		sampleMedia("a"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(created.ID) != 32 {
		t.Fatalf("expected 32-char hex id, got %q", created.ID)
	}

	fetched, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.RootPath != "/pvr" || len(fetched.Medias) != 2 {
		t.Fatalf("unexpected session: %#v", fetched)
	}
	if fetched.Medias[0].Stem != "a" || fetched.Medias[1].Stem != "b" {
		t.Fatalf("expected medias ordered by stem, got %s, %s", fetched.Medias[0].Stem, fetched.Medias[1].Stem)
	}
	b := fetched.Media("b")
	if got := b.Segments.String(); got != "00:00:10.000-00:00:20.000," {
		t.Fatalf("segments = %q", got)
	}
	if value, ok := b.Imported.Get("auto"); !ok || value != "00:00:01.000-00:00:05.000," {
		t.Fatalf("imported auto = %q, %v", value, ok)
	}
	if b.State != media.StateWaitingSegmentReview || b.Title != "b.mp4" {
		t.Fatalf("unexpected media: %#v", b)
	}
}

func TestGetMissingSessionReturnsNil(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	sess, err := store.Get(context.Background(), "missing")
	if err != nil || sess != nil {
		t.Fatalf("expected nil session without error, got %#v, %v", sess, err)
	}
	m, err := store.GetMedia(context.Background(), "missing", "a")
	if err != nil || m != nil {
		t.Fatalf("expected nil media without error, got %#v, %v", m, err)
	}
}

func TestSaveMediaUpdatesOnlyThatRow(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	sess, err := store.Create(ctx, "/pvr", []*session.Media{sampleMedia("a"), sampleMedia("b")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	m, err := store.GetMedia(ctx, sess.ID, "a")
	if err != nil || m == nil {
		t.Fatalf("GetMedia failed: %v", err)
	}
	if err := m.Segments.AddStrict(segment.MustNew(30, 31)); err != nil {
		t.Fatalf("AddStrict: %v", err)
	}
	m.SkipBackup = true
	if err := store.SaveMedia(ctx, sess.ID, m); err != nil {
		t.Fatalf("SaveMedia failed: %v", err)
	}

	fetched, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if a := fetched.Media("a"); !a.SkipBackup || a.Segments.Len() != 1 {
		t.Fatalf("expected media a updated, got %#v", a)
	}
	if b := fetched.Media("b"); b.SkipBackup || b.Segments.Len() != 0 {
		t.Fatalf("expected media b untouched, got %#v", b)
	}
	if !fetched.UpdatedAt.After(sess.CreatedAt) && !fetched.UpdatedAt.Equal(sess.CreatedAt) {
		t.Fatalf("expected updated_at >= created_at")
	}
}

func TestSaveMediaUnknownStem(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	sess, err := store.Create(ctx, "/pvr", []*session.Media{sampleMedia("a")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err = store.SaveMedia(ctx, sess.ID, sampleMedia("zzz"))
	if !errors.Is(err, session.ErrMediaNotFound) {
		t.Fatalf("expected ErrMediaNotFound, got %v", err)
	}
}

func TestReplaceMediasAndDelete(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	sess, err := store.Create(ctx, "/pvr", []*session.Media{sampleMedia("a"), sampleMedia("b")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.ReplaceMedias(ctx, sess.ID, []*session.Media{sampleMedia("c")}); err != nil {
		t.Fatalf("ReplaceMedias failed: %v", err)
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != sess.ID || summaries[0].MediaCount != 1 {
		t.Fatalf("unexpected summaries: %#v", summaries)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if m, _ := store.GetMedia(ctx, sess.ID, "c"); m != nil {
		t.Fatalf("expected medias removed with the session, got %#v", m)
	}
	if err := store.Delete(ctx, sess.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := store.ReplaceMedias(ctx, sess.ID, nil); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on replace, got %v", err)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Create(context.Background(), "/pvr", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	summaries, err := reopened.List(context.Background())
	if err != nil || len(summaries) != 1 {
		t.Fatalf("expected persisted session, got %#v, %v", summaries, err)
	}
	if reopened.Path() != cfg.SessionDBPath() {
		t.Fatalf("Path() = %q, want %q", reopened.Path(), cfg.SessionDBPath())
	}
}
