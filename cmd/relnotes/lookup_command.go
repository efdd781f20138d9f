package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"relnotes/internal/cvelookup"
	"relnotes/internal/logging"
	"relnotes/internal/lookupcache"
	"relnotes/internal/render"
)

type lookupRow struct {
	Identifier string `json:"identifier"`
	cvelookup.Result
	Error string `json:"error,omitempty"`
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var noCache bool
	var credential string

	cmd := &cobra.Command{
		Use:   "lookup CVE-ID...",
		Short: "Resolve CVE identifiers to their announcement issues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			client, err := newLookupClient(cfg, logger, nil)
			if err != nil {
				return err
			}
			var resolver render.Resolver = client
			if cfg.Cache.Enabled && !noCache {
				store, err := openCache(cfg, logger)
				if err != nil {
					return fmt.Errorf("open lookup cache: %w", err)
				}
				defer store.Close()
				resolver = lookupcache.NewResolver(client, store, logger)
			}

			rows := make([]lookupRow, 0, len(args))
			failed := 0
			for _, arg := range args {
				id := strings.ToUpper(strings.TrimSpace(arg))
				result, err := resolver.Resolve(cmd.Context(), cvelookup.Request{Identifier: id, Credential: credential})
				row := lookupRow{Identifier: id, Result: result}
				if err != nil {
					if ctxErr := cmd.Context().Err(); ctxErr != nil {
						return ctxErr
					}
					failed++
					row.Error = err.Error()
					logging.WarnWithContext(logger, "cve lookup failed", "cve_lookup_failed",
						logging.String(logging.FieldIdentifier, id),
						logging.Error(err),
						logging.String(logging.FieldImpact, "identifier not resolved"),
					)
				}
				rows = append(rows, row)
			}

			if jsonOutput {
				if err := writeJSON(cmd, rows); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderLookupTable(rows))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d lookup(s) failed", failed, len(rows))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the lookup cache")
	cmd.Flags().StringVar(&credential, "token", "", "GitHub token for this lookup (defaults to github.token)")
	return cmd
}

func renderLookupTable(rows []lookupRow) string {
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		title, link := row.Title, row.URL
		if row.Error != "" {
			title, link = "error", summarizeLookupError(row.Error)
		}
		body = append(body, []string{row.Identifier, title, link})
	}
	return renderTable([]string{"CVE", "Title", "URL"}, body, nil)
}

func summarizeLookupError(msg string) string {
	if msg == "" {
		return ""
	}
	if first, _, ok := strings.Cut(msg, "\n"); ok {
		return first
	}
	return msg
}
