package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"relnotes/internal/config"
	"relnotes/internal/fileutil"
	"relnotes/internal/logging"
	"relnotes/internal/releases"
	"relnotes/internal/render"
)

// Template file names looked up in the template directory.
const (
	TemplateCVE      = "major-cve-template.md"
	TemplateReleases = "core-releases-template.md"
	TemplateReadme   = "core-README-template.md"
	TemplateRNReadme = "releasenote-README-template.md"
)

// TemplateFor returns the template rendered for a page kind. Scaffold pages
// have no template.
func TemplateFor(kind string) (string, bool) {
	switch kind {
	case config.PageCVE:
		return TemplateCVE, true
	case config.PageReleases:
		return TemplateReleases, true
	case config.PageReadme:
		return TemplateReadme, true
	case config.PageRNReadme:
		return TemplateRNReadme, true
	default:
		return "", false
	}
}

// Outcome of a single page or scaffolded file.
const (
	OutcomeWritten = "written"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Observer receives one event per output file or skipped page.
type Observer interface {
	ObservePage(kind, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObservePage(string, string) {}

// Report summarises a run.
type Report struct {
	Written  []string
	Skipped  []string
	Duration time.Duration
}

// Generator writes pages for one configuration.
type Generator struct {
	cfg      *config.Config
	builder  *render.Builder
	logger   *slog.Logger
	observer Observer
}

// New creates a Generator. A nil observer discards events.
func New(cfg *config.Config, builder *render.Builder, logger *slog.Logger, observer Observer) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("pages: config is required")
	}
	if builder == nil {
		return nil, errors.New("pages: builder is required")
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Generator{
		cfg:      cfg,
		builder:  builder,
		logger:   logging.NewComponentLogger(logger, "pages"),
		observer: observer,
	}, nil
}

type pageFunc func(ctx context.Context, channels []releases.Channel, report *Report) error

// Run generates every enabled page kind. It fails fast only on lock
// contention, metadata that cannot be parsed, write errors, cancellation, and
// lookup failures when fail-fast is configured.
func (g *Generator) Run(ctx context.Context) (report Report, err error) {
	start := time.Now()
	defer func() {
		report.Duration = time.Since(start)
	}()

	lock, err := acquireLock(g.cfg.Paths.OutputDir)
	if err != nil {
		return report, err
	}
	defer func() {
		if err := lock.release(); err != nil {
			logging.WarnWithContext(g.logger, "failed to release output lock", "lock_release_failed",
				logging.String("lock", lock.path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run may report the directory as locked until this process exits"),
			)
		}
	}()

	channels, err := releases.LoadChannels(g.cfg.Paths.MetadataDir, g.cfg.Generate.ChannelVersions, g.logger)
	if err != nil {
		return report, fmt.Errorf("load channel metadata: %w", err)
	}

	steps := []struct {
		kind string
		run  pageFunc
	}{
		{config.PageReleases, g.generateReleases},
		{config.PageReadme, g.generateReadme},
		{config.PageRNReadme, g.generateRNReadme},
		{config.PageCVE, g.generateCVEPages},
		{config.PageScaffold, g.generateScaffold},
	}
	for _, step := range steps {
		if !g.cfg.PageEnabled(step.kind) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		pageCtx := logging.WithPage(ctx, step.kind)
		if err := step.run(pageCtx, channels, &report); err != nil {
			g.observer.ObservePage(step.kind, OutcomeFailed)
			return report, fmt.Errorf("%s page: %w", step.kind, err)
		}
	}

	logging.WithContext(ctx, g.logger).Info("generate run complete",
		logging.Int("written", len(report.Written)),
		logging.Int("skipped", len(report.Skipped)),
		logging.Duration("duration", time.Since(start)),
		logging.String(logging.FieldEventType, "generate_complete"),
	)
	return report, nil
}

// renderPage renders one template to outPath. A missing template is logged
// and recorded as skipped.
func (g *Generator) renderPage(ctx context.Context, kind, templateName, outPath string, vars map[string]string, sections map[string]render.Section, report *Report) error {
	logger := logging.WithContext(ctx, g.logger)
	templatePath := filepath.Join(g.cfg.Paths.TemplateDir, templateName)
	lines, err := render.ReadTemplate(templatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			g.skip(logger, kind, templatePath, report, "template not found; page skipped")
			return nil
		}
		return fmt.Errorf("read template: %w", err)
	}

	out, err := render.Render(ctx, lines, vars, sections)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(outPath, []byte(render.Join(out)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	report.Written = append(report.Written, outPath)
	g.observer.ObservePage(kind, OutcomeWritten)
	logger.Info("page written",
		logging.String("path", outPath),
		logging.Int("lines", len(out)),
		logging.String(logging.FieldEventType, "page_written"),
	)
	return nil
}

func (g *Generator) skip(logger *slog.Logger, kind, path string, report *Report, msg string) {
	report.Skipped = append(report.Skipped, path)
	g.observer.ObservePage(kind, OutcomeSkipped)
	logging.WarnWithContext(logger, msg, "page_skipped",
		logging.String("path", path),
		logging.String(logging.FieldErrorHint, "check paths.template_dir and paths.metadata_dir"),
		logging.String(logging.FieldImpact, "output not regenerated"),
	)
}
