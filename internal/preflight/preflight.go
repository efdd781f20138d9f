package preflight

import (
	"context"

	"relnotes/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Advisory failures are reported but do not stop a generate run.
	Advisory bool
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Blocking returns the failed results that are not advisory.
func Blocking(results []Result) []Result {
	var blocking []Result
	for _, r := range Failed(results) {
		if !r.Advisory {
			blocking = append(blocking, r)
		}
	}
	return blocking
}

// RunLocal executes the filesystem checks for the given config.
func RunLocal(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryReadable("Template directory", cfg.Paths.TemplateDir))
	results = append(results, CheckDirectoryReadable("Metadata directory", cfg.Paths.MetadataDir))
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckTemplates(cfg))
	results = append(results, CheckChannelMetadata(cfg))

	if cfg.Cache.Enabled {
		results = append(results, CheckParentWritable("Lookup cache", cfg.Paths.CachePath))
	}
	if cfg.Metrics.Textfile != "" {
		results = append(results, CheckParentWritable("Metrics textfile", cfg.Metrics.Textfile))
	}
	return results
}

// RunAll executes the local checks followed by the GitHub quota check.
// A nil limiter skips the GitHub check.
func RunAll(ctx context.Context, cfg *config.Config, limiter RateLimiter) []Result {
	results := RunLocal(cfg)
	if cfg == nil || limiter == nil {
		return results
	}
	return append(results, CheckGitHub(ctx, limiter, cfg.GitHub.Token != ""))
}
