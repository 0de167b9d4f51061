package probe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/3-lines-studio/folio/internal/core"
)

const (
	DefaultConcurrency = 8
	DefaultTTL         = 5 * time.Minute
)

type ResolverOption func(*Resolver)

func WithConcurrency(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

func WithTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.ttl = ttl
	}
}

func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver turns an ordered ref list into tile states, one probe per ref.
type Resolver struct {
	prober      Prober
	cache       *outcomeCache
	concurrency int
	ttl         time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

func NewResolver(prober Prober, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		prober:      prober,
		concurrency: DefaultConcurrency,
		ttl:         DefaultTTL,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cache = newOutcomeCache(r.ttl, r.now)
	return r
}

// Resolve returns one state per ref, in input order. A failing probe only
// affects its own tile; the returned error is non-nil only when ctx ends.
func (r *Resolver) Resolve(ctx context.Context, refs []core.ImageRef) ([]core.TileState, error) {
	states := make([]core.TileState, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	start := r.now()
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			states[i] = r.resolveOne(gctx, ref)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("probe timing", "refs", len(refs), "duration", r.now().Sub(start))
	return states, nil
}

func (r *Resolver) resolveOne(ctx context.Context, ref core.ImageRef) core.TileState {
	if cached, ok := r.cache.get(ref); ok {
		return cached
	}

	if r.prober == nil || ctx.Err() != nil {
		return core.Displaying{}
	}

	err := r.prober.Probe(ctx, ref)
	switch {
	case err == nil:
		return r.cache.record(ref, core.Displaying{})
	case errors.Is(err, ErrRemoteOff):
		return core.Displaying{}
	case ctx.Err() != nil:
		// Cancellation says nothing about the ref itself.
		return core.Displaying{}
	default:
		r.logger.Debug("tile falls back", "ref", string(ref), "error", err)
		return r.cache.record(ref, core.FailLoad(core.Displaying{}, ref))
	}
}

// Known reports the cached state for ref, if any.
func (r *Resolver) Known(ref core.ImageRef) (core.TileState, bool) {
	return r.cache.get(ref)
}

func (r *Resolver) Reset() {
	r.cache.clear()
}
