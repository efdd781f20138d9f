package pages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"relnotes/internal/config"
	"relnotes/internal/fileutil"
	"relnotes/internal/logging"
	"relnotes/internal/releases"
)

// scaffoldFile maps a template to its destination inside a channel directory.
type scaffoldFile struct {
	template string
	target   func(version string) string
}

var scaffoldFiles = []scaffoldFile{
	{"install-linux-template.md", fixed("install-linux.md")},
	{"install-macos-template.md", fixed("install-macos.md")},
	{"install-windows-template.md", fixed("install-windows.md")},
	{"version-README-template.md", fixed("README.md")},
	{"runtime-template.md", patchNote(".0")},
	{"sdk-template.md", patchNote(".100")},
}

func fixed(name string) func(string) string {
	return func(string) string { return name }
}

// patchNote places the note for the first runtime or SDK patch of a channel:
// runtime 8.0 -> 8.0.0/8.0.0.md, sdk 8.0 -> 8.0.100/8.0.100.md.
func patchNote(suffix string) func(string) string {
	return func(version string) string {
		patch := version + suffix
		return filepath.Join(patch, patch+".md")
	}
}

// ScaffoldTargets lists the files scaffolding writes for one channel,
// relative to the output directory.
func ScaffoldTargets(version string) []string {
	targets := make([]string, 0, len(scaffoldFiles))
	for _, file := range scaffoldFiles {
		targets = append(targets, filepath.Join(releaseNotesDir, version, file.target(version)))
	}
	return targets
}

func (g *Generator) generateScaffold(ctx context.Context, channels []releases.Channel, report *Report) error {
	logger := logging.WithContext(ctx, g.logger)
	supported, _ := releases.Partition(channels, g.builder.Now())
	for _, channel := range supported {
		for _, file := range scaffoldFiles {
			if err := ctx.Err(); err != nil {
				return err
			}
			src := filepath.Join(g.cfg.Paths.TemplateDir, file.template)
			dst := filepath.Join(g.cfg.Paths.OutputDir, releaseNotesDir, channel.Version, file.target(channel.Version))
			if err := fileutil.CopyFile(src, dst); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					g.skip(logger, config.PageScaffold, src, report, "scaffold template not found; file skipped")
					continue
				}
				return fmt.Errorf("scaffold %s: %w", dst, err)
			}
			report.Written = append(report.Written, dst)
			g.observer.ObservePage(config.PageScaffold, OutcomeWritten)
			logger.Debug("scaffold file written",
				logging.String("channel", channel.Version),
				logging.String("path", dst),
			)
		}
	}
	return nil
}
