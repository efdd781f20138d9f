package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"relnotes/internal/config"
	"relnotes/internal/cvelookup"
	"relnotes/internal/pages"
	"relnotes/internal/testsupport"
)

type fakeLimiter struct {
	status cvelookup.RateLimitStatus
	err    error
}

func (f fakeLimiter) RateLimit(context.Context) (cvelookup.RateLimitStatus, error) {
	return f.status, f.err
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryReadable("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectory_Empty(t *testing.T) {
	result := CheckDirectoryReadable("test", "  ")
	if result.Passed || result.Detail != "not configured" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCheckParentWritable_CreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "lookups.db")
	result := CheckParentWritable("cache", path)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("expected parent dir to exist: %v", err)
	}
}

func TestCheckGitHub_Remaining(t *testing.T) {
	result := CheckGitHub(context.Background(), fakeLimiter{status: cvelookup.RateLimitStatus{Limit: 30, Remaining: 28}}, true)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail != "28/30 searches remaining (authenticated)" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckGitHub_Exhausted(t *testing.T) {
	limiter := fakeLimiter{status: cvelookup.RateLimitStatus{Limit: 10, Remaining: 0, ResetAt: time.Now().Add(time.Minute)}}
	result := CheckGitHub(context.Background(), limiter, false)
	if result.Passed {
		t.Fatal("expected failure with exhausted quota")
	}
	if !strings.Contains(result.Detail, "quota exhausted (unauthenticated, limit 10), resets") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckGitHub_Errors(t *testing.T) {
	result := CheckGitHub(context.Background(), fakeLimiter{err: context.DeadlineExceeded}, true)
	if result.Passed || !strings.Contains(result.Detail, "timed out") {
		t.Fatalf("unexpected result: %+v", result)
	}

	unauthorized := &cvelookup.StatusError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"}
	result = CheckGitHub(context.Background(), fakeLimiter{err: unauthorized}, true)
	if result.Detail != "token rejected (401 Unauthorized)" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}

	result = CheckGitHub(context.Background(), fakeLimiter{err: errors.New("boom")}, true)
	if result.Detail != "boom" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckGitHub_WithClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rate_limit" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resources":{"search":{"limit":30,"remaining":5,"reset":1700000000}}}`))
	}))
	defer srv.Close()

	client, err := cvelookup.New(cvelookup.Config{BaseURL: srv.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	result := CheckGitHub(context.Background(), client, true)
	if !result.Passed || result.Detail != "5/30 searches remaining (authenticated)" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCheckTemplatesAndMetadata(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithPages(config.PageCVE, config.PageReleases, config.PageScaffold),
		testsupport.WithChannels("8.0", "9.0"),
	)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.TemplateDir, pages.TemplateCVE), "SECTION-CVETABLE\n")
	testsupport.WriteChannel(t, cfg.Paths.MetadataDir, "9.0", `{"channel-version":"9.0","releases":[]}`)

	templates := CheckTemplates(cfg)
	if templates.Passed {
		t.Fatal("expected missing releases template to be reported")
	}
	if !strings.Contains(templates.Detail, pages.TemplateReleases) {
		t.Fatalf("unexpected detail: %s", templates.Detail)
	}

	metadata := CheckChannelMetadata(cfg)
	if metadata.Passed || !strings.Contains(metadata.Detail, "missing 8.0") {
		t.Fatalf("unexpected metadata result: %+v", metadata)
	}
	if got := Blocking([]Result{templates, metadata}); len(got) != 0 {
		t.Fatalf("expected partial misses to be advisory, got %+v", got)
	}

	cfg.Generate.ChannelVersions = []string{"7.0"}
	if none := CheckChannelMetadata(cfg); none.Passed || none.Advisory {
		t.Fatalf("expected no metadata at all to block, got %+v", none)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPages(config.PageScaffold), testsupport.WithChannels("9.0"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.TemplateDir, 0o755); err != nil {
		t.Fatalf("mkdir templates: %v", err)
	}
	testsupport.WriteChannel(t, cfg.Paths.MetadataDir, "9.0", `{"channel-version":"9.0","releases":[]}`)

	results := RunAll(context.Background(), cfg, fakeLimiter{status: cvelookup.RateLimitStatus{Limit: 30, Remaining: 30}})
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}
	if got := results[len(results)-1].Name; got != "GitHub search" {
		t.Fatalf("expected GitHub check last, got %q", got)
	}

	if local := RunAll(context.Background(), cfg, nil); len(local) != len(results)-1 {
		t.Fatalf("expected nil limiter to skip the GitHub check")
	}
	if RunAll(context.Background(), nil, nil) != nil {
		t.Fatal("expected nil config to produce no results")
	}
}
