package testsupport

import (
	"path/filepath"
	"testing"

	"relnotes/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.GitHub.Token = "test-token"
	cfgVal.Paths.TemplateDir = filepath.Join(base, "templates")
	cfgVal.Paths.MetadataDir = filepath.Join(base, "release-notes")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CachePath = filepath.Join(base, "cache", "lookups.db")
	cfgVal.Paths.ChannelsFile = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPages restricts generation to the listed page kinds.
func WithPages(pages ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Generate.Pages = append([]string(nil), pages...)
	}
}

// WithChannels sets the channel versions used by the index pages.
func WithChannels(versions ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Generate.ChannelVersions = append([]string(nil), versions...)
	}
}

// WithCVEVersions sets the versions that get a CVE page.
func WithCVEVersions(versions ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Generate.CVEVersions = append([]string(nil), versions...)
	}
}

// WithFailFast toggles aborting on the first failed lookup.
func WithFailFast(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Generate.FailFast = enabled
	}
}

// WithGitHubBaseURL points lookups at a test server.
func WithGitHubBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GitHub.BaseURL = url
	}
}

// WithCache enables the lookup cache inside the test's temp directory.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// WithMetricsTextfile writes metrics to a file inside the test's temp directory.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "metrics", "relnotes.prom")
	}
}
