package render

import (
	"context"
	"fmt"
	"path"
	"time"

	"relnotes/internal/logging"
	"relnotes/internal/releases"
)

const (
	tableHeaderSupported   = "|  Version  | Release Date | Support | Latest Patch Version | End of Support |"
	tableHeaderUnsupported = "|  Version  | Release Date | Support | Final Patch Version | End of Support |"
	tableAlignment         = "| :-- | :-- | :-- | :-- | :-- |"

	longDateLayout  = "January 02, 2006"
	monthYearLayout = "January 2006"

	// PoliciesReference is the link definition for the [policies] label used in the Support column.
	PoliciesReference = "[policies]: release-policies.md"
)

// TableOptions controls link targets of the channel tables.
type TableOptions struct {
	// LinkBase prefixes channel directories in links; "release-notes" for
	// repository-root pages, "." for pages inside release-notes/.
	LinkBase string
	// Trailer lines are appended after the reference definitions.
	Trailer []string
}

// SupportedTable renders the table of channels whose end of life is still ahead.
func (b *Builder) SupportedTable(channels []releases.Channel, opts TableOptions) Section {
	return func(context.Context) ([]string, error) {
		supported, _ := releases.Partition(channels, b.now())
		lines := []string{tableHeaderSupported, tableAlignment}
		for _, channel := range supported {
			lines = append(lines, fmt.Sprintf("| [%s](%s) | %s | [%s][policies] | [%s][%s] | %s |",
				releases.DisplayName(channel.Version, false),
				joinLink(opts.LinkBase, channel.Version, "README.md"),
				b.launchCell(channel.Version),
				channel.ReleaseType,
				channel.LatestRelease, channel.LatestRelease,
				formatDate(channel.EOLDate, longDateLayout),
			))
		}
		lines = append(lines, "")
		lines = append(lines, referenceLines(supported, opts.LinkBase)...)
		lines = append(lines, opts.Trailer...)
		return lines, nil
	}
}

// UnsupportedTable renders the table of channels past their end of life.
func (b *Builder) UnsupportedTable(channels []releases.Channel, opts TableOptions) Section {
	return func(context.Context) ([]string, error) {
		_, unsupported := releases.Partition(channels, b.now())
		lines := []string{tableHeaderUnsupported, tableAlignment}
		for _, channel := range unsupported {
			lines = append(lines, fmt.Sprintf("| [%s](%s) | %s | [%s][policies] | [%s][%s] | %s |",
				releases.DisplayName(channel.Version, true),
				joinLink(opts.LinkBase, channel.Version, "README.md"),
				b.launchCell(channel.Version),
				channel.ReleaseType,
				channel.LatestRelease, channel.LatestRelease,
				b.endOfSupportCell(channel),
			))
		}
		lines = append(lines, "")
		lines = append(lines, referenceLines(unsupported, opts.LinkBase)...)
		lines = append(lines, opts.Trailer...)
		return lines, nil
	}
}

// MarkdownFiles lists the latest patch release note of each supported channel.
func (b *Builder) MarkdownFiles(channels []releases.Channel) Section {
	return func(context.Context) ([]string, error) {
		supported, _ := releases.Partition(channels, b.now())
		lines := make([]string, 0, len(supported))
		for _, channel := range supported {
			rel := path.Join(channel.Version, channel.LatestRelease, channel.LatestRelease+".md")
			lines = append(lines, fmt.Sprintf("* [%s](./%s)", rel, rel))
		}
		return lines, nil
	}
}

func (b *Builder) launchCell(version string) string {
	info, ok := b.catalogue.Lookup(version)
	if !ok || info.LaunchDate.IsZero() {
		logging.WarnWithContext(b.logger, "channel missing from catalogue; launch date left blank", "channel_catalogue_missing",
			logging.String("channel", version),
			logging.String(logging.FieldErrorHint, "add the channel to paths.channels_file"),
			logging.String(logging.FieldImpact, "release date cell rendered as TBD"),
		)
		return "TBD"
	}
	date := formatDate(info.LaunchDate, longDateLayout)
	if info.Announcement == "" {
		return date
	}
	return fmt.Sprintf("[%s](%s)", date, info.Announcement)
}

func (b *Builder) endOfSupportCell(channel releases.Channel) string {
	date := formatDate(channel.EOLDate, longDateLayout)
	info, ok := b.catalogue.Lookup(channel.Version)
	if !ok || info.EndOfSupport == "" {
		return date
	}
	return fmt.Sprintf("[%s](%s)", date, info.EndOfSupport)
}

func referenceLines(channels []releases.Channel, base string) []string {
	lines := make([]string, 0, len(channels))
	for _, channel := range channels {
		if channel.LatestRelease == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s]: %s", channel.LatestRelease,
			joinLink(base, channel.Version, channel.LatestRelease, channel.LatestRelease+".md")))
	}
	return lines
}

func joinLink(base string, elems ...string) string {
	rel := path.Join(elems...)
	if base == "" || base == "." {
		return "./" + rel
	}
	return path.Join(append([]string{base}, elems...)...)
}

func formatDate(ts time.Time, layout string) string {
	if ts.IsZero() {
		return "TBD"
	}
	return ts.Format(layout)
}
