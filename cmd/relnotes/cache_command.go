package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"relnotes/internal/logging"
	"relnotes/internal/lookupcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the CVE lookup cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	return cacheCmd
}

func withCacheStore(ctx *commandContext, fn func(*lookupcache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := openCache(cfg, logging.NewNop())
	if err != nil {
		return fmt.Errorf("open lookup cache: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *lookupcache.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					type entryJSON struct {
						Identifier string    `json:"identifier"`
						URL        string    `json:"url"`
						Title      string    `json:"title"`
						ResolvedAt time.Time `json:"resolved_at"`
						Expired    bool      `json:"expired"`
					}
					out := make([]entryJSON, 0, len(entries))
					for _, e := range entries {
						out = append(out, entryJSON{
							Identifier: e.Identifier,
							URL:        e.Result.URL,
							Title:      e.Result.Title,
							ResolvedAt: e.ResolvedAt,
							Expired:    store.Expired(e),
						})
					}
					return writeJSON(cmd, out)
				}

				w := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(w, "Cache at %s is empty\n", store.Path())
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.Identifier,
						e.Result.Title,
						e.ResolvedAt.Local().Format("2006-01-02 15:04"),
						yesNo(store.Expired(e)),
					})
				}
				fmt.Fprintln(w, renderTable([]string{"CVE", "Title", "Resolved", "Expired"}, rows, nil))
				fmt.Fprintf(w, "%d entr%s in %s\n", len(entries), pluralY(len(entries)), store.Path())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit entries as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *lookupcache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached lookup(s)\n", removed)
				return nil
			})
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove cached lookups older than cache.ttl_hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(ctx, func(store *lookupcache.Store) error {
				removed, err := store.Prune(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d expired lookup(s)\n", removed)
				return nil
			})
		},
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
