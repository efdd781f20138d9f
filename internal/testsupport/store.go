package testsupport

import (
	"testing"

	"relnotes/internal/config"
	"relnotes/internal/logging"
	"relnotes/internal/lookupcache"
)

// MustOpenCache opens the lookup cache at cfg.Paths.CachePath and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *lookupcache.Store {
	t.Helper()

	store, err := lookupcache.Open(cfg.Paths.CachePath, cfg.CacheTTL(), logging.NewNop())
	if err != nil {
		t.Fatalf("lookupcache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
