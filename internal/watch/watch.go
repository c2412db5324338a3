// Package watch monitors library source roots and fires a debounced
// callback when annotated source files change, so that the catalog can be
// rebuilt.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/phobologic/funcatalog/internal/lang"
)

const defaultDebounce = 500 * time.Millisecond

// defaultIgnores are paths, relative to a root, that never trigger a
// callback. They mirror the directories skipped by source discovery.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.hg/**",
	"**/.svn/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/testdata/**",
	"**/*.swp",
	"**/*~",
}

// Config holds the parameters for a Watcher.
type Config struct {
	// Roots are the directories to watch recursively.
	Roots []string
	// Patterns are doublestar globs, relative to a root, selecting the files
	// that trigger the callback. Empty means every non-ignored file.
	Patterns []string
	// Debounce is the quiet period after the last event before the
	// callback fires. Zero means 500ms.
	Debounce time.Duration
	Logger   *zap.Logger
	// OnChange receives the sorted absolute paths changed during the
	// debounce window.
	OnChange func(ctx context.Context, changed []string) error
}

// Watcher watches Config.Roots. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	roots    []string
	debounce time.Duration
	logger   *zap.Logger
	started  atomic.Bool
}

// Patterns returns globs matching the source files of languages, or of
// every supported language when languages is empty.
func Patterns(languages []string) []string {
	if len(languages) == 0 {
		for name := range lang.Languages {
			languages = append(languages, name)
		}
		sort.Strings(languages)
	}
	var out []string
	for _, name := range languages {
		l, ok := lang.Languages[name]
		if !ok {
			continue
		}
		for _, ext := range l.Extensions {
			out = append(out, "**/*"+ext)
		}
	}
	return out
}

// New creates a Watcher and registers every non-ignored directory below
// the roots.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Roots) == 0 {
		return nil, errors.New("watch: no roots to watch")
	}
	for _, pat := range cfg.Patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid pattern %q", pat)
		}
	}

	w := &Watcher{
		cfg:      cfg,
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	for _, root := range cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve root %s: %w", root, err)
		}
		w.roots = append(w.roots, abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	for _, root := range w.roots {
		if err := w.addDirectories(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run processes events until ctx is cancelled. It returns nil on
// cancellation. Callbacks never overlap; events arriving while one runs
// are delivered by the next.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 {
			return
		}
		sort.Strings(changed)

		w.logger.Debug("source change detected", zap.Int("files", len(changed)))
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Warn("change callback failed", zap.Error(err))
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing fsnotify watcher", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			rel, ok := w.relative(evt.Name)
			if !ok || isIgnored(rel) || isIgnored(rel+"/") {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.matches(rel) {
				continue
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("fsnotify queue overflow, changes may be missed", zap.Error(err))
				continue
			}
			w.logger.Warn("fsnotify error", zap.Error(err))
		}
	}
}

// relative returns path relative to the root containing it, with slashes.
func (w *Watcher) relative(path string) (string, bool) {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			continue
		}
		return rel, true
	}
	return "", false
}

func (w *Watcher) addDirectories(root string) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("skipping inaccessible path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && (isIgnored(rel) || isIgnored(rel+"/")) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", root, err)
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addDirectories(path); err != nil {
		w.logger.Warn("watching new directory", zap.String("path", path), zap.Error(err))
	}
}

func (w *Watcher) matches(rel string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	for _, pat := range w.cfg.Patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func isIgnored(rel string) bool {
	for _, pat := range defaultIgnores {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}
