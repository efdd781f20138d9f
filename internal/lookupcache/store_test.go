package lookupcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"relnotes/internal/cvelookup"
	"relnotes/internal/logging"
)

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache", "lookups.db"), ttl, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStorePutGetAndExpiry(t *testing.T) {
	store := openTestStore(t, time.Hour)
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	want := cvelookup.Result{URL: "https://example.com/1", Title: "Fix"}
	if err := store.Put(ctx, "CVE-1", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, "CVE-1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("unexpected result: %+v", got)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, err := store.Get(ctx, "CVE-1"); err != nil || ok {
		t.Fatalf("expected expired miss, ok=%v err=%v", ok, err)
	}
	removed, err := store.Prune(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("Prune: removed=%d err=%v", removed, err)
	}
}

func TestStoreIgnoresRedactedResults(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()
	if err := store.Put(ctx, "CVE-2", cvelookup.Redacted()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "CVE-2"); ok {
		t.Fatal("redacted result should not be cached")
	}
}

func TestStoreListAndClear(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()
	for _, id := range []string{"CVE-b", "CVE-a"} {
		if err := store.Put(ctx, id, cvelookup.Result{URL: "u-" + id, Title: "t"}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if err := store.Put(ctx, "CVE-a", cvelookup.Result{URL: "updated", Title: "t"}); err != nil {
		t.Fatalf("Put update: %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Identifier != "CVE-a" || entries[0].Result.URL != "updated" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].ResolvedAt.IsZero() || store.Expired(entries[0]) {
		t.Fatalf("unexpected freshness: %+v", entries[0])
	}

	removed, err := store.Clear(ctx)
	if err != nil || removed != 2 {
		t.Fatalf("Clear: removed=%d err=%v", removed, err)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.db")
	first, err := Open(path, 0, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Put(context.Background(), "CVE-3", cvelookup.Result{URL: "u", Title: "t"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	first.Close()

	second, err := Open(path, 0, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if _, ok, err := second.Get(context.Background(), "CVE-3"); err != nil || !ok {
		t.Fatalf("expected persisted entry, ok=%v err=%v", ok, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.db")
	store, err := Open(path, 0, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	store.Close()

	if _, err := Open(path, 0, nil); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

type countingResolver struct {
	calls  int
	result cvelookup.Result
	err    error
}

func (c *countingResolver) Resolve(context.Context, cvelookup.Request) (cvelookup.Result, error) {
	c.calls++
	return c.result, c.err
}

func TestCachingResolver(t *testing.T) {
	store := openTestStore(t, time.Hour)
	next := &countingResolver{result: cvelookup.Result{URL: "https://example.com/4", Title: "Fix"}}
	resolver := NewResolver(next, store, logging.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := resolver.Resolve(ctx, cvelookup.Request{Identifier: "CVE-4"})
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got != next.result {
			t.Fatalf("unexpected result: %+v", got)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", next.calls)
	}

	next.result = cvelookup.Redacted()
	for i := 0; i < 2; i++ {
		if _, err := resolver.Resolve(ctx, cvelookup.Request{Identifier: "CVE-5"}); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}
	if next.calls != 3 {
		t.Fatalf("redacted results must not be cached, calls=%d", next.calls)
	}

	next.err = cvelookup.ErrRetryBudgetExhausted
	if _, err := resolver.Resolve(ctx, cvelookup.Request{Identifier: "CVE-6"}); !errors.Is(err, cvelookup.ErrRetryBudgetExhausted) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
