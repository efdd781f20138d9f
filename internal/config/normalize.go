package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGitHub()
	c.normalizeGenerate()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.TemplateDir, err = expandPath(strings.TrimSpace(c.Paths.TemplateDir)); err != nil {
		return fmt.Errorf("paths.template_dir: %w", err)
	}
	if c.Paths.MetadataDir, err = expandPath(strings.TrimSpace(c.Paths.MetadataDir)); err != nil {
		return fmt.Errorf("paths.metadata_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ChannelsFile, err = expandPath(strings.TrimSpace(c.Paths.ChannelsFile)); err != nil {
		return fmt.Errorf("paths.channels_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = defaultCachePath
	}
	if c.Paths.CachePath, err = expandPath(strings.TrimSpace(c.Paths.CachePath)); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeGitHub() {
	c.GitHub.Token = strings.TrimSpace(c.GitHub.Token)
	if c.GitHub.Token == defaultGitHubTokenPlaceholder {
		c.GitHub.Token = ""
	}
	if c.GitHub.Token == "" {
		if value, ok := os.LookupEnv(defaultGitHubTokenEnvVar); ok {
			c.GitHub.Token = strings.TrimSpace(value)
		}
	}
	c.GitHub.BaseURL = strings.TrimRight(strings.TrimSpace(c.GitHub.BaseURL), "/")
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = defaultGitHubBaseURL
	}
	c.GitHub.Repository = strings.Trim(strings.TrimSpace(c.GitHub.Repository), "/")
	if c.GitHub.Repository == "" {
		c.GitHub.Repository = defaultGitHubRepository
	}
	c.GitHub.UserAgent = strings.TrimSpace(c.GitHub.UserAgent)
	if c.GitHub.UserAgent == "" {
		c.GitHub.UserAgent = defaultGitHubUserAgent
	}
}

func (c *Config) normalizeGenerate() {
	c.Generate.ChannelVersions = normalizeList(c.Generate.ChannelVersions, false)
	c.Generate.CVEVersions = normalizeList(c.Generate.CVEVersions, false)
	c.Generate.Pages = normalizeList(c.Generate.Pages, true)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeList trims entries, drops blanks and duplicates, and keeps the
// first-seen order.
func normalizeList(values []string, lower bool) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if lower {
			value = strings.ToLower(value)
		}
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
