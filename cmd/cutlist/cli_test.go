package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cutlist/internal/api"
	"cutlist/internal/edl"
	"cutlist/internal/media"
	"cutlist/internal/sidecar"
	"cutlist/internal/testsupport"
)

const (
	movieFile = "Channel 1_Movie Name_2022-12-05-2203-20.ts"
	movieStem = "Channel 1_Movie Name_2022-12-05-2203-20"
)

type cliTestEnv struct {
	configPath string
	mediaDir   string
	moviePath  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("CUTLIST_API_TOKEN", "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, filepath.Join(base, "data"), filepath.Join(base, "logs"))

	mediaDir := filepath.Join(base, "recordings")
	moviePath := testsupport.WriteMedia(t, mediaDir, movieFile)
	testsupport.WriteMetadata(t, moviePath, "Movie Name", "", "")
	testsupport.WriteSegments(t, moviePath, `{"auto": "00:00:10.000-00:00:20.000,00:01:00.000-00:02:00.000", "silence": "00:00:05.000-00:00:30.000,"}`)
	testsupport.WriteMedia(t, mediaDir, "recording.ts")

	return &cliTestEnv{configPath: configPath, mediaDir: mediaDir, moviePath: moviePath}
}

func writeTestConfig(t *testing.T, path, dataDir, logDir string) {
	t.Helper()
	content := fmt.Sprintf("[paths]\ndata_dir = %q\nlog_dir = %q\n\n[logging]\nretention_days = 0\n", dataDir, logDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func decodeJSON(t *testing.T, out string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "sessions.db")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestTitleCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "title", env.moviePath}, env.configPath)
	if err != nil {
		t.Fatalf("title: %v", err)
	}
	var report titleReport
	decodeJSON(t, out, &report)
	if report.Title != "Movie Name" || report.Filename != "Movie Name.mp4" || report.Channel != "Channel 1" || report.Placeholder {
		t.Fatalf("unexpected report: %+v", report)
	}

	out, _, err = runCLI(t, []string{"title", filepath.Join(env.mediaDir, "recording.ts")}, env.configPath)
	if err != nil {
		t.Fatalf("title placeholder: %v", err)
	}
	requireContains(t, out, "Nom du fichier converti")
	requireContains(t, out, "Placeholder: yes")
}

func TestMediaListReportsStates(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "media", "list", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("media list: %v", err)
	}
	var entries []mediaEntry
	decodeJSON(t, out, &entries)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	want := map[string]media.State{
		movieStem:   media.StateWaitingSegmentReview,
		"recording": media.StateWaitingMetadata,
	}
	for _, entry := range entries {
		if entry.State != want[entry.Stem] {
			t.Fatalf("state of %s = %q, want %q", entry.Stem, entry.State, want[entry.Stem])
		}
	}

	out, _, err = runCLI(t, []string{"media", "list", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("media list table: %v", err)
	}
	requireContains(t, out, movieStem)
	requireContains(t, out, "waiting_segment_review")

	out, _, err = runCLI(t, []string{"media", "list", t.TempDir()}, env.configPath)
	if err != nil {
		t.Fatalf("media list empty: %v", err)
	}
	requireContains(t, out, "No .ts files")

	if _, _, err := runCLI(t, []string{"validate", env.moviePath}, env.configPath); err != nil {
		t.Fatalf("validate: %v", err)
	}
	out, _, err = runCLI(t, []string{"--json", "media", "list", env.mediaDir, "--state", "segment_reviewed"}, env.configPath)
	if err != nil {
		t.Fatalf("media list --state: %v", err)
	}
	entries = nil
	decodeJSON(t, out, &entries)
	if len(entries) != 1 || entries[0].Stem != movieStem || !entries[0].Reviewed {
		t.Fatalf("expected only the reviewed movie, got %+v", entries)
	}

	if _, _, err := runCLI(t, []string{"media", "list", env.mediaDir, "--state", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected unknown state to fail")
	}
}

func TestSegmentsShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "segments", "show", env.moviePath}, env.configPath)
	if err != nil {
		t.Fatalf("segments show: %v", err)
	}
	var reports []detectorReport
	decodeJSON(t, out, &reports)
	if len(reports) != 2 || reports[0].Key != "auto" || reports[1].Key != "silence" {
		t.Fatalf("unexpected detectors: %+v", reports)
	}
	if reports[0].Raw != "00:00:10.000-00:00:20.000,00:01:00.000-00:02:00.000," {
		t.Fatalf("expected normalized list, got %q", reports[0].Raw)
	}
	if len(reports[0].Segments) != 2 || reports[0].Total != 70 {
		t.Fatalf("unexpected auto detector: %+v", reports[0])
	}

	out, _, err = runCLI(t, []string{"segments", "show", env.moviePath, "--detector", "silence"}, env.configPath)
	if err != nil {
		t.Fatalf("segments show --detector: %v", err)
	}
	requireContains(t, out, "Detector silence")
	requireContains(t, out, "00:00:05.000-00:00:30.000,00:25")
	requireContains(t, out, "00:00:25.000")

	if _, _, err := runCLI(t, []string{"segments", "show", env.moviePath, "--detector", "missing"}, env.configPath); err == nil {
		t.Fatal("expected unknown detector to fail")
	}
}

func TestValidateWritesEDL(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"validate", env.moviePath, "--skip-backup"}, env.configPath)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	requireContains(t, out, "Wrote "+sidecar.EDLPath(env.moviePath))

	doc, err := edl.Load(sidecar.EDLPath(env.moviePath))
	if err != nil {
		t.Fatalf("load edl: %v", err)
	}
	if doc.Filename != "Movie Name.mp4" || !doc.SkipBackup {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Segments != "00:00:10.000-00:00:20.000,00:01:00.000-00:02:00.000," {
		t.Fatalf("segments = %q", doc.Segments)
	}
	state, err := media.StateOf(env.moviePath)
	if err != nil || state != media.StateSegmentReviewed {
		t.Fatalf("state after validate = %q, %v", state, err)
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    func(env *cliTestEnv) []string
		wantErr string
		written bool
	}{
		{
			name: "explicit segments with title",
			args: func(env *cliTestEnv) []string {
				return []string{"validate", env.moviePath, "--segments", "00:00:01.000-00:00:02.000,", "--title", "Autre Titre"}
			},
			written: true,
		},
		{
			name: "overlapping explicit segments",
			args: func(env *cliTestEnv) []string {
				return []string{"validate", env.moviePath, "--segments", "00:00:01.000-00:00:05.000,00:00:04.000-00:00:06.000,"}
			},
			wantErr: "overlap",
		},
		{
			name: "unresolved title",
			args: func(env *cliTestEnv) []string {
				return []string{"validate", filepath.Join(env.mediaDir, "recording.ts"), "--segments", "00:00:01.000-00:00:02.000,"}
			},
			wantErr: "pass --title",
		},
		{
			name: "invalid filename",
			args: func(env *cliTestEnv) []string {
				return []string{"validate", env.moviePath, "--title", "bad/name"}
			},
			wantErr: "schema violation",
		},
		{
			name: "dry run",
			args: func(env *cliTestEnv) []string {
				return []string{"validate", env.moviePath, "--dry-run"}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := setupCLITestEnv(t)
			_, _, err := runCLI(t, tc.args(env), env.configPath)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("validate: %v", err)
			}
			_, statErr := os.Stat(sidecar.EDLPath(env.moviePath))
			if written := statErr == nil; written != tc.written {
				t.Fatalf("edl written = %v, want %v", written, tc.written)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "session", "create", env.mediaDir}, env.configPath)
	if err != nil {
		t.Fatalf("session create: %v", err)
	}
	var created api.Session
	decodeJSON(t, out, &created)
	if created.ID == "" || len(created.Medias) != 2 {
		t.Fatalf("unexpected session: %+v", created)
	}
	movie, ok := created.Medias[movieStem]
	if !ok || movie.Title != "Movie Name.mp4" || len(movie.Segments) != 2 {
		t.Fatalf("unexpected movie media: %+v", movie)
	}

	out, _, err = runCLI(t, []string{"--json", "session", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("session list: %v", err)
	}
	var listed api.SessionListResponse
	decodeJSON(t, out, &listed)
	if len(listed.Sessions) != 1 || listed.Sessions[0].ID != created.ID || listed.Sessions[0].MediaCount != 2 {
		t.Fatalf("unexpected listing: %+v", listed)
	}

	out, _, err = runCLI(t, []string{"session", "show", created.ID, "--refresh"}, env.configPath)
	if err != nil {
		t.Fatalf("session show: %v", err)
	}
	requireContains(t, out, "Session "+created.ID)
	requireContains(t, out, "Movie Name.mp4")

	out, _, err = runCLI(t, []string{"session", "delete", created.ID}, env.configPath)
	if err != nil {
		t.Fatalf("session delete: %v", err)
	}
	requireContains(t, out, "Deleted session")

	if _, _, err := runCLI(t, []string{"session", "show", created.ID}, env.configPath); err == nil {
		t.Fatal("expected show of a deleted session to fail")
	}
	out, _, err = runCLI(t, []string{"session", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("session list: %v", err)
	}
	requireContains(t, out, "No sessions")
}
