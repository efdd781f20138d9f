package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	TemplateDir  string `toml:"template_dir"`
	MetadataDir  string `toml:"metadata_dir"`
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
	ChannelsFile string `toml:"channels_file"`
	CachePath    string `toml:"cache_path"`
}

// GitHub contains configuration for the issue search API used to enrich CVE
// identifiers.
type GitHub struct {
	Token                 string `toml:"token"`
	BaseURL               string `toml:"base_url"`
	Repository            string `toml:"repository"`
	UserAgent             string `toml:"user_agent"`
	MaxAttempts           int    `toml:"max_attempts"`
	InitialBackoffSeconds int    `toml:"initial_backoff_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Generate controls which pages are produced and for which channels.
type Generate struct {
	ChannelVersions []string `toml:"channel_versions"`
	CVEVersions     []string `toml:"cve_versions"`
	Pages           []string `toml:"pages"`
	FailFast        bool     `toml:"fail_fast"`
}

// Cache contains configuration for the local lookup cache.
type Cache struct {
	Enabled  bool `toml:"enabled"`
	TTLHours int  `toml:"ttl_hours"`
}

// Metrics contains configuration for the Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for relnotes.
//
// Configuration sections by subsystem:
//   - Paths: template, metadata, output and log locations
//   - GitHub: CVE enrichment credential and retry budget
//   - Generate: channel versions, CVE versions and page selection
//   - Cache: SQLite lookup cache
//   - Metrics: Prometheus textfile output
//   - Logging: log format, level, and retention
type Config struct {
	Paths    Paths    `toml:"paths"`
	GitHub   GitHub   `toml:"github"`
	Generate Generate `toml:"generate"`
	Cache    Cache    `toml:"cache"`
	Metrics  Metrics  `toml:"metrics"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("relnotes.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a generator run writes into.
// Template and metadata directories are inputs and are never created.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Paths.CachePath) != "" {
		dir := filepath.Dir(c.Paths.CachePath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}
	return nil
}

// InitialBackoff returns the configured first fallback wait as a duration.
func (c *Config) InitialBackoff() time.Duration {
	return time.Duration(c.GitHub.InitialBackoffSeconds) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.GitHub.RequestTimeoutSeconds) * time.Second
}

// CacheTTL returns how long cached lookups stay fresh.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// PageEnabled reports whether the named page kind is selected for generation.
func (c *Config) PageEnabled(kind string) bool {
	kind = strings.ToLower(strings.TrimSpace(kind))
	for _, page := range c.Generate.Pages {
		if page == kind {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
