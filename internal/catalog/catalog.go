// Package catalog aggregates the functions of every contributor module into
// a category index that is built lazily, cached, and rebuilt on request.
package catalog

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/phobologic/funcatalog/internal/introspect"
	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

// Discoverer lists the ids of the modules to introspect. It is called once
// per build.
type Discoverer interface {
	Discover(ctx context.Context) ([]string, error)
}

// DiscovererFunc adapts a function to Discoverer.
type DiscovererFunc func(ctx context.Context) ([]string, error)

// Discover implements Discoverer.
func (f DiscovererFunc) Discover(ctx context.Context) ([]string, error) { return f(ctx) }

// Options configures a Catalog.
type Options struct {
	Logger     *zap.Logger
	Registerer prometheus.Registerer // nil leaves metrics unregistered
}

// Catalog is safe for concurrent use. Reads are served from an immutable
// Snapshot; the first read after construction or Reload builds a new one.
type Catalog struct {
	discover Discoverer
	resolve  module.Resolver
	logger   *zap.Logger
	metrics  *metrics

	group singleflight.Group
	mu    sync.Mutex // guards gen and snapshot publication
	gen   uint64
	snap  atomic.Pointer[Snapshot]
}

// New creates a Catalog. Nothing is discovered until the first read.
func New(discover Discoverer, resolve module.Resolver, opts Options) *Catalog {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		discover: discover,
		resolve:  resolve,
		logger:   logger,
		metrics:  newMetrics(opts.Registerer),
	}
}

// Snapshot returns the current build, building it first if needed.
// Concurrent callers share a single build. A build whose context is
// cancelled is returned to its callers but not cached; a caller whose own
// context is still live builds again instead of taking that result.
func (c *Catalog) Snapshot(ctx context.Context) *Snapshot {
	for {
		s, cached := c.snapshot(ctx)
		if cached || ctx.Err() != nil {
			return s
		}
	}
}

func (c *Catalog) snapshot(ctx context.Context) (*Snapshot, bool) {
	if s := c.snap.Load(); s != nil {
		return s, true
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	v, _, _ := c.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		if s := c.snap.Load(); s != nil {
			return flight{snap: s, cached: true}, nil
		}
		s := c.build(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen && ctx.Err() == nil {
			c.snap.Store(s)
			return flight{snap: s, cached: true}, nil
		}
		return flight{snap: s}, nil
	})
	f := v.(flight)
	return f.snap, f.cached
}

// flight is the result shared by callers of one build.
type flight struct {
	snap   *Snapshot
	cached bool
}

// Reload discards the cached build. The next read rebuilds from the
// contributor modules. Readers holding an older Snapshot keep using it.
func (c *Catalog) Reload() {
	c.mu.Lock()
	c.gen++
	c.snap.Store(nil)
	c.mu.Unlock()
	c.logger.Info("catalog reload requested")
}

// Rebuild discards the cached build and builds a new one immediately.
func (c *Catalog) Rebuild(ctx context.Context) *Snapshot {
	c.Reload()
	return c.Snapshot(ctx)
}

// Categories returns the category tags of the current build.
func (c *Catalog) Categories(ctx context.Context) []string {
	return c.Snapshot(ctx).Categories()
}

// FunctionsByCategory returns the functions tagged with category.
func (c *Catalog) FunctionsByCategory(ctx context.Context, category string) []*model.Function {
	return c.Snapshot(ctx).FunctionsByCategory(category)
}

// AllFunctions returns every function once.
func (c *Catalog) AllFunctions(ctx context.Context) []*model.Function {
	return c.Snapshot(ctx).AllFunctions()
}

// ExistsFunction reports whether a function with canonical name name exists.
func (c *Catalog) ExistsFunction(ctx context.Context, name string) bool {
	return c.Snapshot(ctx).ExistsFunction(name)
}

// Function looks up a function by canonical name.
func (c *Catalog) Function(ctx context.Context, name string) (*model.Function, bool) {
	return c.Snapshot(ctx).Function(name)
}

// Modules returns the ids of the contributing modules.
func (c *Catalog) Modules(ctx context.Context) []string {
	return c.Snapshot(ctx).Modules()
}

func (c *Catalog) build(ctx context.Context) *Snapshot {
	start := time.Now()
	s := newSnapshot(uuid.NewString())
	logger := c.logger.With(zap.String("build", s.id))

	ids, err := c.discover.Discover(ctx)
	if err != nil {
		c.warn(s, kindDiscovery, err)
		logger.Warn("module discovery failed", zap.Error(err))
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		m, err := c.resolve.Resolve(ctx, id)
		if err != nil {
			c.warn(s, kindModule, &ModuleError{Module: id, Err: err})
			logger.Warn("skipping unresolvable module", zap.String("module", id), zap.Error(err))
			continue
		}
		s.modules = append(s.modules, id)

		fns, err := introspect.Functions(m)
		for _, e := range multierr.Errors(err) {
			kind := kindModule
			if errors.Is(e, introspect.ErrParamMismatch) {
				kind = kindMismatch
			}
			c.warn(s, kind, &ModuleError{Module: id, Err: e})
			logger.Warn("function metadata problem", zap.String("module", id), zap.Error(e))
		}

		for _, fn := range fns {
			if prev, ok := s.add(fn); !ok {
				dup := &DuplicateError{Name: fn.Name, Module: id, Previous: prev.Module}
				c.warn(s, kindDuplicate, dup)
				logger.Warn("duplicate function name",
					zap.String("function", fn.Name),
					zap.String("module", id),
					zap.String("previous_module", prev.Module))
			}
		}
	}
	s.seal()

	c.metrics.builds.Inc()
	c.metrics.duration.Observe(time.Since(start).Seconds())
	c.metrics.functions.Set(float64(len(s.all)))

	logger.Info("catalog built",
		zap.Int("modules", len(s.modules)),
		zap.Int("functions", len(s.all)),
		zap.Int("categories", len(s.categories)),
		zap.Int("warnings", len(s.warnings)),
		zap.Duration("elapsed", time.Since(start)))
	return s
}

func (c *Catalog) warn(s *Snapshot, kind string, err error) {
	s.warnings = append(s.warnings, err)
	c.metrics.warnings.WithLabelValues(kind).Inc()
}
