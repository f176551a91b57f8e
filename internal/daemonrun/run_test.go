package daemonrun_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cutlist/internal/daemonrun"
	"cutlist/internal/testsupport"
)

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{
			LogLevel: "info",
			Ready:    func(address string) { ready <- address },
		})
	}()

	var address string
	select {
	case address = <-ready:
	case err := <-done:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not become ready")
	}

	resp, err := http.Get("http://" + address + "/api/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	content, err := os.ReadFile(cfg.DaemonLogPath())
	if err != nil {
		t.Fatalf("read daemon log: %v", err)
	}
	for _, fragment := range []string{"configuration snapshot", "cutlistd started", "cutlistd shutting down"} {
		if !strings.Contains(string(content), fragment) {
			t.Fatalf("expected %q in daemon log", fragment)
		}
	}
}

func TestRunRejectsBrokenTitleResources(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.TitleStrategies = filepath.Join(cfg.Paths.DataDir, "missing.yml")

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err == nil {
		t.Fatal("expected error for a missing strategy file")
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := daemonrun.Run(context.Background(), nil, daemonrun.Options{}); err == nil {
		t.Fatal("expected error without config")
	}
}
