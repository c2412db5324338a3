package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/funcatalog/internal/introspect"
	"github.com/phobologic/funcatalog/internal/module"
)

const goLib = `package lib

//exprfn:function ABS Returns the absolute value of a number.
//exprfn:category MATH
//exprfn:param Number The number to check.
func Abs(x float64) float64 { return x }
`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIDRoundTrip(t *testing.T) {
	t.Parallel()

	p := filepath.Join("lib", "math.go")
	got, ok := Path(ID(p))
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = Path("builtin.math")
	assert.False(t, ok)
	_, ok = Path("file:")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "math.go")
	write(t, path, goLib)

	r := NewResolver([]string{root}, Options{})
	m, err := r.Resolve(context.Background(), ID(path))
	require.NoError(t, err)
	assert.Equal(t, ID(path), m.ID())

	fns, err := introspect.Functions(m)
	require.NoError(t, err)
	require.Len(t, fns, 1)
	assert.Equal(t, "ABS", fns[0].Name)
	assert.Equal(t, "ABS(Number)", fns[0].Signature())
}

func TestResolveCachesUntilChanged(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "math.go")
	write(t, path, goLib)

	r := NewResolver([]string{root}, Options{})
	ctx := context.Background()
	first, err := r.Resolve(ctx, ID(path))
	require.NoError(t, err)
	again, err := r.Resolve(ctx, ID(path))
	require.NoError(t, err)
	assert.Same(t, first, again)

	write(t, path, goLib+`
//exprfn:function SIGN Returns the sign of a number.
func Sign(x float64) int { return 0 }
`)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err := r.Resolve(ctx, ID(path))
	require.NoError(t, err)
	assert.NotSame(t, first, changed)
	assert.Len(t, changed.Callables(), 2)
}

func TestResolveUnknown(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "math.go")
	write(t, outside, goLib)
	write(t, filepath.Join(root, "notes.txt"), "text")

	r := NewResolver([]string{root}, Options{})
	ctx := context.Background()

	tests := []string{
		"builtin.math",
		ID(outside),
		ID(filepath.Join(root, "missing.go")),
		ID(filepath.Join(root, "notes.txt")),
		ID(root),
	}
	for _, id := range tests {
		_, err := r.Resolve(ctx, id)
		assert.ErrorIs(t, err, module.ErrUnknownModule, id)
	}
}

func TestResolveTooLarge(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "math.go")
	write(t, path, goLib)

	r := NewResolver([]string{root}, Options{MaxFileSize: 16})
	_, err := r.Resolve(context.Background(), ID(path))
	require.Error(t, err)
	assert.NotErrorIs(t, err, module.ErrUnknownModule)
}

func TestPreload(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	var ids []string
	for _, name := range []string{"a.go", "b.go", "c.go"} {
		p := filepath.Join(root, name)
		write(t, p, goLib)
		ids = append(ids, ID(p))
	}
	ids = append(ids, "builtin.math", ID(filepath.Join(root, "missing.go")))

	r := NewResolver([]string{root}, Options{})
	r.Preload(context.Background(), ids)

	r.mu.Lock()
	assert.Len(t, r.cache, 3)
	r.mu.Unlock()

	m, err := r.Resolve(context.Background(), ids[1])
	require.NoError(t, err)
	assert.Len(t, m.Callables(), 1)
}

func TestResolveSharesParser(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := filepath.Join(root, "a.go")
	b := filepath.Join(root, "b.go")
	write(t, a, goLib)
	write(t, b, goLib)

	r := NewResolver([]string{root}, Options{})
	_, err := r.Resolve(context.Background(), ID(a))
	require.NoError(t, err)
	require.Len(t, r.parsers, 1)
	first := r.parsers["go"]

	_, err = r.Resolve(context.Background(), ID(b))
	require.NoError(t, err)
	require.Len(t, r.parsers, 1)
	assert.Same(t, first, r.parsers["go"])

	r.Close()
	assert.Empty(t, r.parsers)

	write(t, a, goLib+`
//exprfn:function SIGN Returns the sign of a number.
func Sign(x float64) int { return 0 }
`)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(a, later, later))

	m, err := r.Resolve(context.Background(), ID(a))
	require.NoError(t, err)
	assert.Len(t, m.Callables(), 2)
	r.Close()
}

func TestResolverInChain(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "Lib.java")
	write(t, path, `public class Lib {
	@Function(name="NOW")
	public static java.util.Date NOW(){ return null; }
}
`)

	reg := module.NewRegistry()
	chain := module.Chain{reg, NewResolver([]string{root}, Options{})}
	m, err := chain.Resolve(context.Background(), ID(path))
	require.NoError(t, err)
	require.Len(t, m.Callables(), 1)
	assert.Equal(t, "NOW", m.Callables()[0].Name)
}
