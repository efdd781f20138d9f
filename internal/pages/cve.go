package pages

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"relnotes/internal/config"
	"relnotes/internal/logging"
	"relnotes/internal/releases"
	"relnotes/internal/render"
)

// CVEFileName returns the output name for a CVE version: "8.0" -> "cve8.md".
func CVEFileName(version string) string {
	return "cve" + releases.Major(version) + ".md"
}

// generateCVEPages writes one page per configured CVE version. The channel
// list is ignored: CVE versions load their own metadata.
func (g *Generator) generateCVEPages(ctx context.Context, _ []releases.Channel, report *Report) error {
	logger := logging.WithContext(ctx, g.logger)
	templatePath := filepath.Join(g.cfg.Paths.TemplateDir, TemplateCVE)
	if _, err := os.Stat(templatePath); errors.Is(err, os.ErrNotExist) {
		g.skip(logger, config.PageCVE, templatePath, report, "template not found; page skipped")
		return nil
	}

	for _, version := range g.cfg.Generate.CVEVersions {
		if err := ctx.Err(); err != nil {
			return err
		}
		channel, err := releases.LoadChannel(g.cfg.Paths.MetadataDir, version)
		if err != nil {
			if errors.Is(err, releases.ErrChannelNotFound) {
				g.skip(logger.With(logging.String("channel", version)), config.PageCVE,
					releases.MetadataPath(g.cfg.Paths.MetadataDir, version), report, "channel metadata missing; cve page skipped")
				continue
			}
			return err
		}
		vars := map[string]string{render.VersionToken: releases.Major(version)}
		sections := map[string]render.Section{
			render.SectionCVETable: g.builder.CVETable(*channel),
		}
		outPath := filepath.Join(g.cfg.Paths.OutputDir, CVEFileName(version))
		if err := g.renderPage(ctx, config.PageCVE, TemplateCVE, outPath, vars, sections, report); err != nil {
			return err
		}
	}
	return nil
}
