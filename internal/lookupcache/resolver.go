package lookupcache

import (
	"context"
	"log/slog"

	"relnotes/internal/cvelookup"
	"relnotes/internal/logging"
)

// Resolver is the lookup the cache sits in front of.
type Resolver interface {
	Resolve(ctx context.Context, req cvelookup.Request) (cvelookup.Result, error)
}

// CachingResolver answers from the Store when it can and records fresh
// authoritative results. Cache errors are logged and never fail a lookup.
type CachingResolver struct {
	next   Resolver
	store  *Store
	logger *slog.Logger
}

// NewResolver wraps next with store.
func NewResolver(next Resolver, store *Store, logger *slog.Logger) *CachingResolver {
	return &CachingResolver{
		next:   next,
		store:  store,
		logger: logging.NewComponentLogger(logger, "lookupcache"),
	}
}

// Resolve implements the resolver contract with a cache in front.
func (r *CachingResolver) Resolve(ctx context.Context, req cvelookup.Request) (cvelookup.Result, error) {
	logger := logging.WithContext(ctx, r.logger).With(logging.String(logging.FieldIdentifier, req.Identifier))
	if result, ok, err := r.store.Get(ctx, req.Identifier); err != nil {
		logging.WarnWithContext(logger, "cache read failed; querying GitHub", "lookup_cache_read_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the cache file if it is corrupt"),
			logging.String(logging.FieldImpact, "lookup spends search quota"),
		)
	} else if ok {
		logger.Debug("lookup served from cache")
		return result, nil
	}

	result, err := r.next.Resolve(ctx, req)
	if err != nil {
		return result, err
	}
	if err := r.store.Put(ctx, req.Identifier, result); err != nil {
		logging.WarnWithContext(logger, "cache write failed", "lookup_cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next run repeats this lookup"),
		)
	}
	return result, nil
}
