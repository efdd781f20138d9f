package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateGitHub(); err != nil {
		return err
	}
	if err := c.validateGenerate(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.TemplateDir == "" {
		return errors.New("paths.template_dir must be set")
	}
	if c.Paths.MetadataDir == "" {
		return errors.New("paths.metadata_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateGitHub() error {
	if c.PageEnabled(PageCVE) && c.GitHub.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("github.token is required when the %q page is enabled. Set %s env var or edit %s (create with 'relnotes config init')",
			PageCVE, defaultGitHubTokenEnvVar, defaultPath)
	}
	parsed, err := url.Parse(c.GitHub.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("github.base_url %q must be an absolute URL", c.GitHub.BaseURL)
	}
	if parts := strings.Split(c.GitHub.Repository, "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("github.repository %q must be in owner/name form", c.GitHub.Repository)
	}
	if err := ensurePositiveMap(map[string]int{
		"github.max_attempts":            c.GitHub.MaxAttempts,
		"github.initial_backoff_seconds": c.GitHub.InitialBackoffSeconds,
		"github.request_timeout_seconds": c.GitHub.RequestTimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGenerate() error {
	if len(c.Generate.Pages) == 0 {
		return errors.New("generate.pages must include at least one page")
	}
	for _, page := range c.Generate.Pages {
		if !isKnownPage(page) {
			return fmt.Errorf("generate.pages: unknown page %q (expected one of %s)", page, strings.Join(KnownPages, ", "))
		}
	}
	if len(c.Generate.ChannelVersions) == 0 {
		return errors.New("generate.channel_versions must include at least one version")
	}
	for _, version := range c.Generate.ChannelVersions {
		if !isChannelVersion(version) {
			return fmt.Errorf("generate.channel_versions: %q is not a major.minor version", version)
		}
	}
	if c.PageEnabled(PageCVE) && len(c.Generate.CVEVersions) == 0 {
		return errors.New("generate.cve_versions must include at least one version when the cve page is enabled")
	}
	for _, version := range c.Generate.CVEVersions {
		if !isChannelVersion(version) {
			return fmt.Errorf("generate.cve_versions: %q is not a major.minor version", version)
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Paths.CachePath == "" {
		return errors.New("paths.cache_path must be set when cache.enabled is true")
	}
	if c.Cache.TTLHours <= 0 {
		return errors.New("cache.ttl_hours must be positive when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func isKnownPage(page string) bool {
	for _, known := range KnownPages {
		if page == known {
			return true
		}
	}
	return false
}

func isChannelVersion(value string) bool {
	major, minor, ok := strings.Cut(value, ".")
	if !ok {
		return false
	}
	if _, err := strconv.Atoi(major); err != nil {
		return false
	}
	_, err := strconv.Atoi(minor)
	return err == nil
}
