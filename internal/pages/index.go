package pages

import (
	"context"
	"path/filepath"

	"relnotes/internal/config"
	"relnotes/internal/releases"
	"relnotes/internal/render"
)

const (
	releaseNotesDir = "release-notes"

	downloadsLine = "* [Binaries and installers](https://dotnet.microsoft.com/download/dotnet)"
	installLine   = "* [Installation docs](https://learn.microsoft.com/dotnet/core/install/)"
)

func (g *Generator) generateReleases(ctx context.Context, channels []releases.Channel, report *Report) error {
	opts := render.TableOptions{LinkBase: releaseNotesDir}
	return g.renderPage(ctx, config.PageReleases, TemplateReleases,
		filepath.Join(g.cfg.Paths.OutputDir, "releases.md"), nil,
		map[string]render.Section{
			render.SectionSupported:   g.builder.SupportedTable(channels, opts),
			render.SectionUnsupported: g.builder.UnsupportedTable(channels, opts),
		}, report)
}

func (g *Generator) generateReadme(ctx context.Context, channels []releases.Channel, report *Report) error {
	opts := render.TableOptions{LinkBase: releaseNotesDir, Trailer: []string{render.PoliciesReference}}
	return g.renderPage(ctx, config.PageReadme, TemplateReadme,
		filepath.Join(g.cfg.Paths.OutputDir, "README.md"), nil,
		map[string]render.Section{
			render.SectionRelease: g.builder.SupportedTable(channels, opts),
		}, report)
}

func (g *Generator) generateRNReadme(ctx context.Context, channels []releases.Channel, report *Report) error {
	opts := render.TableOptions{
		LinkBase: ".",
		Trailer:  []string{"[policies]: ../release-policies.md", "", downloadsLine, installLine},
	}
	return g.renderPage(ctx, config.PageRNReadme, TemplateRNReadme,
		filepath.Join(g.cfg.Paths.OutputDir, releaseNotesDir, "README.md"), nil,
		map[string]render.Section{
			render.SectionRelease:       g.builder.SupportedTable(channels, opts),
			render.SectionMarkdownFiles: g.builder.MarkdownFiles(channels),
		}, report)
}
