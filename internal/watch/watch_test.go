package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func start(t *testing.T, cfg Config) (cancel func()) {
	t.Helper()
	w, err := New(cfg)
	require.NoError(t, err)

	ctx, stop := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	// Let the event loop start.
	time.Sleep(50 * time.Millisecond)

	return func() {
		stop()
		require.NoError(t, <-errCh)
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{}, 1)

	cancel := start(t, Config{
		Roots:    []string{dir},
		Patterns: Patterns(nil),
		Debounce: 100 * time.Millisecond,
		Logger:   zaptest.NewLogger(t),
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			select {
			case done <- struct{}{}:
			default:
			}
			return nil
		},
	})

	for _, name := range []string{"A.java", "b.go", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(200 * time.Millisecond)
	cancel()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	assert.Contains(t, collected, filepath.Join(dir, "A.java"))
	assert.Contains(t, collected, filepath.Join(dir, "b.go"))
	assert.NotContains(t, collected, filepath.Join(dir, "notes.txt"))
}

func TestWatcherIgnoresDefaultDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor", "x"), 0o755))
	fired := make(chan []string, 10)

	cancel := start(t, Config{
		Roots:    []string{dir},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "x", "dep.go"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.go"), []byte("x"), 0o644))

	select {
	case changed := <-fired:
		assert.Equal(t, []string{filepath.Join(dir, "lib.go")}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)
	cancel := start(t, Config{
		Roots:    []string{dir},
		Patterns: []string{"**/*.go"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	defer cancel()

	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "fn.go"), []byte("x"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-fired:
			if assert.NotEmpty(t, changed) && changed[len(changed)-1] == filepath.Join(sub, "fn.go") {
				return
			}
		case <-deadline:
			t.Fatal("file in new directory not reported")
		}
	}
}

func TestWatcherRunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	require.Error(t, w.Run(ctx))
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)

	_, err = New(Config{Roots: []string{t.TempDir()}, Patterns: []string{"[unclosed"}})
	require.Error(t, err)

	_, err = New(Config{Roots: []string{filepath.Join(t.TempDir(), "missing")}})
	require.Error(t, err)
}

func TestPatterns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"**/*.go", "**/*.java"}, Patterns(nil))
	assert.Equal(t, []string{"**/*.java"}, Patterns([]string{"java", "cobol"}))
}

func TestIsIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want bool
	}{
		{".git/HEAD", true},
		{"node_modules/pkg/index.go", true},
		{"a/vendor/b/c.go", true},
		{"Lib.java.swp", true},
		{"src/Lib.java", false},
		{"vendored.go", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isIgnored(tt.rel), tt.rel)
	}
}
