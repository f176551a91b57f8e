package testsupport

import (
	"testing"

	"cutlist/internal/config"
	"cutlist/internal/session"
)

// MustOpenStore opens a session.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *session.Store {
	t.Helper()

	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
