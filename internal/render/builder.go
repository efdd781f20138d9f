package render

import (
	"context"
	"log/slog"
	"time"

	"relnotes/internal/cvelookup"
	"relnotes/internal/logging"
	"relnotes/internal/releases"
)

// Resolver looks up the announcement link for one CVE identifier.
type Resolver interface {
	Resolve(ctx context.Context, req cvelookup.Request) (cvelookup.Result, error)
}

// Options configures a Builder.
type Options struct {
	Resolver  Resolver
	Catalogue *releases.Catalogue
	// Credential is forwarded with every lookup; empty uses the resolver's own token.
	Credential string
	// FailFast aborts a CVE table on the first failed lookup instead of
	// rendering the row with redaction text.
	FailFast bool
	Now      func() time.Time
	Logger   *slog.Logger
}

// Builder renders the generated sections of every page kind.
type Builder struct {
	resolver   Resolver
	catalogue  *releases.Catalogue
	credential string
	failFast   bool
	now        func() time.Time
	logger     *slog.Logger
}

// NewBuilder creates a Builder. A nil catalogue uses the built-in one.
func NewBuilder(opts Options) *Builder {
	catalogue := opts.Catalogue
	if catalogue == nil {
		catalogue = releases.DefaultCatalogue()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Builder{
		resolver:   opts.Resolver,
		catalogue:  catalogue,
		credential: opts.Credential,
		failFast:   opts.FailFast,
		now:        now,
		logger:     logging.NewComponentLogger(opts.Logger, "render"),
	}
}

// Now returns the builder's clock reading; supported/unsupported splits use it.
func (b *Builder) Now() time.Time {
	return b.now()
}
