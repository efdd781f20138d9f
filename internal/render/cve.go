package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"relnotes/internal/cvelookup"
	"relnotes/internal/logging"
	"relnotes/internal/releases"
)

// CVETable renders the per-release CVE list of one channel. Each non-preview
// release with complete metadata becomes a "- <version> (<Month Year>)" line
// followed by one "  - [<cve> | <title>](<url>)" line per CVE.
//
// Releases or CVE entries missing required fields are logged and skipped. A
// failed lookup renders the redaction pair unless the builder is fail-fast.
// Cancellation always aborts.
func (b *Builder) CVETable(channel releases.Channel) Section {
	return func(ctx context.Context) ([]string, error) {
		if b.resolver == nil {
			return nil, errors.New("cve table: resolver unavailable")
		}
		logger := logging.WithContext(ctx, b.logger).With(logging.String("channel", channel.Version))
		var lines []string
		for idx, release := range channel.Releases {
			if release.Version == nil || release.Date == nil || release.CVEs == nil {
				logging.WarnWithContext(logger, "release entry missing version, date, or cve-list; skipped", "release_metadata_incomplete",
					logging.Int("release_index", idx),
					logging.String(logging.FieldErrorHint, "fix the release entry in releases.json"),
					logging.String(logging.FieldImpact, "release omitted from CVE page"),
				)
				continue
			}
			version := strings.TrimSpace(*release.Version)
			if releases.IsPrerelease(version) {
				continue
			}
			released, ok := releases.ParseDate(*release.Date)
			if !ok {
				logging.WarnWithContext(logger, "release date unparseable; release skipped", "release_date_invalid",
					logging.String("release", version),
					logging.String("release_date", *release.Date),
					logging.String(logging.FieldErrorHint, "use yyyy-mm-dd in release-date"),
					logging.String(logging.FieldImpact, "release omitted from CVE page"),
				)
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s (%s)", version, released.Format(monthYearLayout)))

			for _, cve := range release.CVEs {
				if cve.ID == nil || strings.TrimSpace(*cve.ID) == "" {
					logging.WarnWithContext(logger, "cve entry missing cve-id; skipped", "cve_id_missing",
						logging.String("release", version),
						logging.String(logging.FieldErrorHint, "fix the cve-list entry in releases.json"),
						logging.String(logging.FieldImpact, "CVE omitted from CVE page"),
					)
					continue
				}
				id := strings.TrimSpace(*cve.ID)
				result, err := b.resolve(ctx, id)
				if err != nil {
					return nil, err
				}
				lines = append(lines, fmt.Sprintf("  - [%s | %s](%s)", id, result.Title, result.URL))
			}
		}
		return lines, nil
	}
}

func (b *Builder) resolve(ctx context.Context, id string) (cvelookup.Result, error) {
	result, err := b.resolver.Resolve(ctx, cvelookup.Request{Identifier: id, Credential: b.credential})
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cvelookup.Result{}, ctxErr
	}
	if b.failFast {
		return cvelookup.Result{}, fmt.Errorf("resolve %s: %w", id, err)
	}
	hint := "check network connectivity and github.token"
	if errors.Is(err, cvelookup.ErrRetryBudgetExhausted) {
		hint = "rerun after the GitHub rate limit resets or raise github.max_attempts"
	}
	logging.WarnWithContext(logging.WithContext(ctx, b.logger), "cve lookup failed; row rendered with redaction text", "cve_lookup_failed",
		logging.String(logging.FieldIdentifier, id),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "CVE row has no link"),
	)
	return cvelookup.Redacted(), nil
}
