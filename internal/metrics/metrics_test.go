package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"relnotes/internal/cvelookup"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.ObserveRequest(403)
	r.ObserveRequest(403)
	r.ObserveRequest(200)
	r.ObserveRateLimit(2*time.Second, false)
	r.ObserveRateLimit(10*time.Second, true)
	r.ObserveOutcome(cvelookup.OutcomeFound)
	r.ObservePage("cve", "written")

	if got := testutil.ToFloat64(r.requests.WithLabelValues("403")); got != 2 {
		t.Fatalf("expected 2 forbidden requests, got %v", got)
	}
	if got := testutil.ToFloat64(r.rateLimitSec); got != 12 {
		t.Fatalf("expected 12s waited, got %v", got)
	}
	if got := testutil.ToFloat64(r.rateLimits.WithLabelValues("reset_header")); got != 1 {
		t.Fatalf("expected one reset-header wait, got %v", got)
	}
	if got := testutil.ToFloat64(r.lookups.WithLabelValues("found")); got != 1 {
		t.Fatalf("expected one found lookup, got %v", got)
	}
	if got := testutil.ToFloat64(r.pages.WithLabelValues("cve", "written")); got != 1 {
		t.Fatalf("expected one written cve page, got %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveOutcome(cvelookup.OutcomeRedacted)
	r.FinishRun(time.Unix(1700000000, 0), 3*time.Second)

	path := filepath.Join(t.TempDir(), "nested", "relnotes.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		`relnotes_cve_lookups_total{outcome="redacted"} 1`,
		"relnotes_last_run_duration_seconds 3",
		"# TYPE relnotes_pages_total counter",
		`relnotes_pages_total{outcome="skipped",page="scaffold"} 0`,
		`relnotes_github_rate_limited_total{source="reset_header"} 0`,
		`relnotes_github_requests_total{code="403"} 0`,
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("textfile missing %q:\n%s", want, content)
		}
	}
}

func TestWriteTextfileValidation(t *testing.T) {
	r := New()
	if err := r.WriteTextfile(""); err != nil {
		t.Fatalf("empty path should be a no-op, got %v", err)
	}
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "metrics.txt")); err == nil {
		t.Fatal("expected error for non-.prom path")
	}
}
