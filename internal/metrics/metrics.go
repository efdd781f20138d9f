// Package metrics counts lookup and page events for one generate run and
// writes them in the Prometheus textfile format, for node_exporter's
// textfile collector to pick up.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"relnotes/internal/config"
	"relnotes/internal/cvelookup"
	"relnotes/internal/pages"
)

const (
	sourceBackoff     = "backoff"
	sourceResetHeader = "reset_header"
)

// Recorder implements the lookup and page observers on a private registry.
type Recorder struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	rateLimits   *prometheus.CounterVec
	rateLimitSec prometheus.Counter
	lookups      *prometheus.CounterVec
	pages        *prometheus.CounterVec
	lastRun      prometheus.Gauge
	runDuration  prometheus.Gauge
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relnotes_github_requests_total",
			Help: "GitHub search requests by HTTP status code.",
		}, []string{"code"}),
		rateLimits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relnotes_github_rate_limited_total",
			Help: "Rate-limited responses by wait source.",
		}, []string{"source"}),
		rateLimitSec: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relnotes_github_rate_limit_wait_seconds_total",
			Help: "Total time spent waiting for the GitHub rate limit.",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relnotes_cve_lookups_total",
			Help: "CVE lookups by outcome.",
		}, []string{"outcome"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relnotes_pages_total",
			Help: "Generated outputs by page kind and outcome.",
		}, []string{"page", "outcome"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relnotes_last_run_timestamp_seconds",
			Help: "Unix time the last generate run finished.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relnotes_last_run_duration_seconds",
			Help: "Duration of the last generate run.",
		}),
	}
	r.registry.MustRegister(r.requests, r.rateLimits, r.rateLimitSec, r.lookups, r.pages, r.lastRun, r.runDuration)
	r.initSeries()
	return r
}

// initSeries creates the known label combinations at zero so every metric
// family appears in the textfile even when a run never touched it.
func (r *Recorder) initSeries() {
	for _, code := range []int{http.StatusOK, http.StatusForbidden, http.StatusTooManyRequests} {
		r.requests.WithLabelValues(strconv.Itoa(code))
	}
	for _, source := range []string{sourceBackoff, sourceResetHeader} {
		r.rateLimits.WithLabelValues(source)
	}
	for _, outcome := range []cvelookup.Outcome{
		cvelookup.OutcomeFound, cvelookup.OutcomeRedacted, cvelookup.OutcomeExhausted, cvelookup.OutcomeFailed,
	} {
		r.lookups.WithLabelValues(string(outcome))
	}
	for _, kind := range []string{config.PageReleases, config.PageReadme, config.PageRNReadme, config.PageCVE, config.PageScaffold} {
		for _, outcome := range []string{pages.OutcomeWritten, pages.OutcomeSkipped, pages.OutcomeFailed} {
			r.pages.WithLabelValues(kind, outcome)
		}
	}
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRequest implements cvelookup.Observer.
func (r *Recorder) ObserveRequest(statusCode int) {
	r.requests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// ObserveRateLimit implements cvelookup.Observer.
func (r *Recorder) ObserveRateLimit(wait time.Duration, authoritative bool) {
	source := sourceBackoff
	if authoritative {
		source = sourceResetHeader
	}
	r.rateLimits.WithLabelValues(source).Inc()
	r.rateLimitSec.Add(wait.Seconds())
}

// ObserveOutcome implements cvelookup.Observer.
func (r *Recorder) ObserveOutcome(outcome cvelookup.Outcome) {
	r.lookups.WithLabelValues(string(outcome)).Inc()
}

// ObservePage implements pages.Observer.
func (r *Recorder) ObservePage(kind, outcome string) {
	r.pages.WithLabelValues(kind, outcome).Inc()
}

// FinishRun records the end of a generate run.
func (r *Recorder) FinishRun(finished time.Time, duration time.Duration) {
	r.lastRun.Set(float64(finished.Unix()))
	r.runDuration.Set(duration.Seconds())
}

// WriteTextfile atomically writes all metrics to path. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if !strings.HasSuffix(path, ".prom") {
		return errors.New("metrics textfile must end in .prom")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
