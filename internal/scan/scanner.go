package scan

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/phobologic/funcatalog/internal/catalog"
	"github.com/phobologic/funcatalog/internal/model"
)

// SnapshotSource supplies the catalog build to scan against.
type SnapshotSource interface {
	Snapshot(ctx context.Context) *catalog.Snapshot
}

// Options configures a Scanner.
type Options struct {
	// CacheSize bounds the memoised results. Zero disables memoisation.
	CacheSize  int
	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

// Scanner scans expressions against the current catalog snapshot and
// memoises results per snapshot. It is safe for concurrent use.
type Scanner struct {
	src      SnapshotSource
	cache    *lru.Cache[string, []*model.Function]
	logger   *zap.Logger
	requests *prometheus.CounterVec
}

// NewScanner creates a Scanner reading from src.
func NewScanner(src SnapshotSource, opts Options) (*Scanner, error) {
	if opts.CacheSize < 0 {
		return nil, fmt.Errorf("invalid scan cache size %d", opts.CacheSize)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scanner{
		src:    src,
		logger: logger,
		requests: promauto.With(opts.Registerer).NewCounterVec(prometheus.CounterOpts{
			Namespace: "funcatalog",
			Subsystem: "scan",
			Name:      "requests_total",
			Help:      "Expression scans by cache outcome",
		}, []string{"cache"}),
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, []*model.Function](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating scan cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Scan returns the functions of the current snapshot referenced by text.
func (s *Scanner) Scan(ctx context.Context, text string) []*model.Function {
	snap := s.src.Snapshot(ctx)
	if s.cache == nil {
		s.requests.WithLabelValues("disabled").Inc()
		return Functions(text, snap.AllFunctions())
	}

	// Snapshot ids change on every rebuild, so stale entries age out.
	key := snap.ID() + "\x00" + text
	if fns, ok := s.cache.Get(key); ok {
		s.requests.WithLabelValues("hit").Inc()
		return append([]*model.Function{}, fns...)
	}
	s.requests.WithLabelValues("miss").Inc()

	fns := Functions(text, snap.AllFunctions())
	if evicted := s.cache.Add(key, fns); evicted {
		s.logger.Debug("scan cache eviction", zap.Int("size", s.cache.Len()))
	}
	return append([]*model.Function{}, fns...)
}

// Purge drops every memoised result.
func (s *Scanner) Purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}
