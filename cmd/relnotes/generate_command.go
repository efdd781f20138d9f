package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"relnotes/internal/config"
	"relnotes/internal/logging"
	"relnotes/internal/lookupcache"
	"relnotes/internal/metrics"
	"relnotes/internal/pages"
	"relnotes/internal/preflight"
	"relnotes/internal/releases"
	"relnotes/internal/render"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var failFast bool
	var pageFlags []string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render release-notes pages from templates and channel metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fail-fast") {
				cfg.Generate.FailFast = failFast
			}
			if len(pageFlags) > 0 {
				cfg.Generate.Pages = normalizePages(pageFlags)
			}
			if noCache {
				cfg.Cache.Enabled = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return runGenerate(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Abort when a CVE lookup fails instead of rendering a redacted row")
	cmd.Flags().StringSliceVar(&pageFlags, "page", nil, "Page kinds to generate (releases, readme, rn-readme, cve, scaffold)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the lookup cache for this run")
	return cmd
}

func normalizePages(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func runGenerate(parent context.Context, cfg *config.Config, base *slog.Logger, out io.Writer) error {
	if parent == nil {
		parent = context.Background()
	}
	signalCtx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := uuid.NewString()
	runCtx := logging.WithRunID(signalCtx, runID)
	logger := logging.WithContext(runCtx, logging.NewComponentLogger(base, "generate"))

	if pruned := logging.PruneLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, time.Now()); pruned > 0 {
		logger.Info("log archives pruned",
			logging.Int("removed", pruned),
			logging.Int("retention_days", cfg.Logging.RetentionDays),
			logging.String(logging.FieldEventType, "log_retention"),
		)
	}

	for _, result := range preflight.RunLocal(cfg) {
		if result.Passed {
			continue
		}
		if !result.Advisory {
			return fmt.Errorf("preflight: %s: %s", result.Name, result.Detail)
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_warning",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "run relnotes doctor for details"),
			logging.String(logging.FieldImpact, "some outputs will be skipped"),
		)
	}

	recorder := metrics.New()
	client, err := newLookupClient(cfg, base, recorder)
	if err != nil {
		return fmt.Errorf("init lookup client: %w", err)
	}
	var resolver render.Resolver = client
	if cfg.Cache.Enabled {
		store, err := openCache(cfg, base)
		if err != nil {
			return fmt.Errorf("open lookup cache: %w", err)
		}
		defer store.Close()
		if pruned, err := store.Prune(runCtx); err != nil {
			logging.WarnWithContext(logger, "lookup cache prune failed", "cache_prune_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "expired entries remain until the next run"),
			)
		} else if pruned > 0 {
			logger.Info("pruned expired lookups", logging.Int64("count", pruned))
		}
		resolver = lookupcache.NewResolver(client, store, base)
	}

	catalogue, err := releases.LoadCatalogue(cfg.Paths.ChannelsFile)
	if err != nil {
		return fmt.Errorf("load channel catalogue: %w", err)
	}
	builder := render.NewBuilder(render.Options{
		Resolver:  resolver,
		Catalogue: catalogue,
		FailFast:  cfg.Generate.FailFast,
		Logger:    base,
	})
	generator, err := pages.New(cfg, builder, base, recorder)
	if err != nil {
		return err
	}

	logger.Info("generate run started",
		logging.String("output_dir", cfg.Paths.OutputDir),
		logging.String("pages", strings.Join(cfg.Generate.Pages, ",")),
		logging.Bool("cache", cfg.Cache.Enabled),
		logging.Bool("token_present", cfg.GitHub.Token != ""),
		logging.String(logging.FieldEventType, "generate_started"),
	)
	report, runErr := generator.Run(runCtx)

	recorder.FinishRun(time.Now(), report.Duration)
	if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
			logging.String("path", cfg.Metrics.Textfile),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run metrics unavailable to node_exporter"),
		)
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(out, "Wrote %d file(s), skipped %d in %s\n", len(report.Written), len(report.Skipped), report.Duration.Round(time.Millisecond))
	for _, path := range report.Written {
		fmt.Fprintf(out, "  %s\n", relativeTo(cfg.Paths.OutputDir, path))
	}
	return nil
}

func relativeTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
