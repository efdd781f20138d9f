package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"relnotes/internal/config"
	"relnotes/internal/logging"
	"relnotes/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, templates, metadata, and GitHub quota",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var limiter preflight.RateLimiter
			if !offline {
				client, err := newLookupClient(cfg, logging.NewNop(), nil)
				if err != nil {
					return err
				}
				limiter = client
			}
			results := preflight.RunAll(cmd.Context(), cfg, limiter)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines, configStatusLines(ctx, cfg, colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			for _, r := range results {
				kind := statusOK
				switch {
				case r.Passed:
				case r.Advisory:
					kind = statusWarn
				default:
					kind = statusError
				}
				lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			if blocking := preflight.Blocking(results); len(blocking) > 0 {
				return fmt.Errorf("%d check(s) failed", len(blocking))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the GitHub quota check")
	return cmd
}

func configStatusLines(ctx *commandContext, cfg *config.Config, colorize bool) []string {
	source := ctx.configPath
	kind := statusOK
	if !ctx.configExists {
		source += " (not found, using defaults)"
		kind = statusWarn
	}
	tokenKind, tokenDetail := statusOK, "configured"
	if cfg.GitHub.Token == "" {
		tokenKind, tokenDetail = statusWarn, "missing (unauthenticated search quota applies)"
	}
	cacheDetail := "disabled"
	if cfg.Cache.Enabled {
		cacheDetail = cfg.Paths.CachePath
	}
	return []string{
		renderStatusLine("Config file", kind, source, colorize),
		renderStatusLine("GitHub token", tokenKind, tokenDetail, colorize),
		renderStatusLine("Repository", statusInfo, cfg.GitHub.Repository, colorize),
		renderStatusLine("Pages", statusInfo, strings.Join(cfg.Generate.Pages, ", "), colorize),
		renderStatusLine("Fail fast", statusInfo, yesNo(cfg.Generate.FailFast), colorize),
		renderStatusLine("Lookup cache", statusInfo, cacheDetail, colorize),
	}
}
