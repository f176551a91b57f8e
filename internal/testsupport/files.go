package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cutlist/internal/sidecar"
)

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMedia creates an empty media file named name in dir and returns its
// path.
func WriteMedia(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	WriteText(t, path, "")
	return path
}

// WriteMetadata writes the metadata sidecar of mediaPath.
func WriteMetadata(t testing.TB, mediaPath, title, subTitle, description string) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{
		"title":       title,
		"sub_title":   subTitle,
		"description": description,
	})
	if err != nil {
		t.Fatalf("encode metadata: %v", err)
	}
	WriteText(t, sidecar.MetadataPath(mediaPath), string(payload))
}

// WriteSegments writes the segments sidecar of mediaPath. raw is written as
// is so that key order and formatting are under the caller's control.
func WriteSegments(t testing.TB, mediaPath, raw string) {
	t.Helper()

	WriteText(t, sidecar.SegmentsPath(mediaPath), raw)
}

// WriteEDL writes the EDL sidecar of mediaPath.
func WriteEDL(t testing.TB, mediaPath, content string) {
	t.Helper()

	WriteText(t, sidecar.EDLPath(mediaPath), content)
}
