package main

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"relnotes/internal/config"
	"relnotes/internal/cvelookup"
	"relnotes/internal/logging"
	"relnotes/internal/lookupcache"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// newLookupClient builds a GitHub lookup client from the config's retry and
// transport settings.
func newLookupClient(cfg *config.Config, logger *slog.Logger, observer cvelookup.Observer) (*cvelookup.Client, error) {
	return cvelookup.New(cvelookup.Config{
		Token:      cfg.GitHub.Token,
		BaseURL:    cfg.GitHub.BaseURL,
		Repository: cfg.GitHub.Repository,
		UserAgent:  cfg.GitHub.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
		Policy: cvelookup.RetryPolicy{
			MaxAttempts:    cfg.GitHub.MaxAttempts,
			InitialBackoff: cfg.InitialBackoff(),
		},
		Logger:   logger,
		Observer: observer,
	})
}

func openCache(cfg *config.Config, logger *slog.Logger) (*lookupcache.Store, error) {
	return lookupcache.Open(cfg.Paths.CachePath, cfg.CacheTTL(), logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
