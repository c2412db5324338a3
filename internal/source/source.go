// Package source resolves "file:" module ids to modules read from
// annotated library source files.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/phobologic/funcatalog/internal/lang"
	"github.com/phobologic/funcatalog/internal/module"
	"github.com/phobologic/funcatalog/internal/parse"
)

// Prefix marks module ids that name a source file.
const Prefix = "file:"

// DefaultMaxFileSize is the size above which source files are skipped.
const DefaultMaxFileSize = 1 << 20

// ID returns the module id of the source file at path.
func ID(path string) string {
	return Prefix + filepath.ToSlash(path)
}

// Path returns the file path named by id, reporting whether id is a
// source module id.
func Path(id string) (string, bool) {
	p, ok := strings.CutPrefix(id, Prefix)
	if !ok || p == "" {
		return "", false
	}
	return filepath.FromSlash(p), true
}

type entry struct {
	modTime time.Time
	size    int64
	module  *module.Static
}

// Resolver parses source files on demand and keeps the result until the
// file changes. It is safe for concurrent use.
type Resolver struct {
	roots       []string
	maxFileSize int64
	logger      *zap.Logger

	mu    sync.Mutex
	cache map[string]entry

	// parseMu serialises Resolve calls so they share one parser per
	// language.
	parseMu sync.Mutex
	parsers parserSet
}

// Options configures a Resolver.
type Options struct {
	MaxFileSize int64 // zero means DefaultMaxFileSize
	Logger      *zap.Logger
}

// NewResolver returns a Resolver for files below roots.
func NewResolver(roots []string, opts Options) *Resolver {
	r := &Resolver{
		maxFileSize: opts.MaxFileSize,
		logger:      opts.Logger,
		cache:       make(map[string]entry),
		parsers:     parserSet{},
	}
	if r.maxFileSize <= 0 {
		r.maxFileSize = DefaultMaxFileSize
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	for _, root := range roots {
		if abs, err := filepath.Abs(root); err == nil {
			r.roots = append(r.roots, abs)
		}
	}
	return r
}

// Resolve implements module.Resolver. Ids without the file prefix, and
// files outside the configured roots, are unknown.
func (r *Resolver) Resolve(ctx context.Context, id string) (module.Module, error) {
	path, ok := Path(id)
	if !ok || !r.within(path) {
		return nil, fmt.Errorf("%s: %w", id, module.ErrUnknownModule)
	}
	r.parseMu.Lock()
	defer r.parseMu.Unlock()
	return r.load(ctx, id, path, r.parsers)
}

// Close releases the parsers held for Resolve.
func (r *Resolver) Close() {
	r.parseMu.Lock()
	defer r.parseMu.Unlock()
	r.parsers.close()
}

// Preload parses the files named by ids concurrently so that later
// Resolve calls are served from the cache. Failures are left for Resolve
// to report.
func (r *Resolver) Preload(ctx context.Context, ids []string) {
	var paths []string
	var keep []string
	for _, id := range ids {
		if p, ok := Path(id); ok && r.within(p) {
			paths = append(paths, p)
			keep = append(keep, id)
		}
	}
	if len(paths) == 0 {
		return
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	work := make(chan int, len(paths))
	for i := range paths {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parsers
			parsers := parserSet{}
			defer parsers.close()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				if _, err := r.load(ctx, keep[idx], paths[idx], parsers); err != nil {
					r.logger.Debug("preload failed", zap.String("module", keep[idx]), zap.Error(err))
				}
			}
		}()
	}
	wg.Wait()
}

func (r *Resolver) within(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, root := range r.roots {
		rel, err := filepath.Rel(root, abs)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// parserSet holds one parser per language for a single goroutine.
type parserSet map[string]*sitter.Parser

func (s parserSet) get(l *lang.Language) *sitter.Parser {
	p, ok := s[l.Name]
	if !ok {
		p = l.NewParser()
		s[l.Name] = p
	}
	return p
}

func (s parserSet) close() {
	for name, p := range s {
		p.Close()
		delete(s, name)
	}
}

func (r *Resolver) load(ctx context.Context, id, path string, parsers parserSet) (*module.Static, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", id, module.ErrUnknownModule, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w: is a directory", id, module.ErrUnknownModule)
	}
	if info.Size() > r.maxFileSize {
		return nil, fmt.Errorf("%s: file size %d exceeds limit %d", id, info.Size(), r.maxFileSize)
	}

	r.mu.Lock()
	e, ok := r.cache[path]
	r.mu.Unlock()
	if ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		return e.module, nil
	}

	l := lang.Languages[lang.ForExtension(filepath.Ext(path))]
	if l == nil {
		return nil, fmt.Errorf("%s: %w: unsupported file type", id, module.ErrUnknownModule)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	p := parsers.get(l)
	calls, err := parse.Callables(ctx, l, p, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	m := &module.Static{Name: id, Calls: calls}

	r.mu.Lock()
	r.cache[path] = entry{modTime: info.ModTime(), size: info.Size(), module: m}
	r.mu.Unlock()
	r.logger.Debug("parsed source module", zap.String("module", id), zap.Int("callables", len(calls)))
	return m, nil
}
