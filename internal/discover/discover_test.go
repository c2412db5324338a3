package discover

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverSourceFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "Functions.java", "class Functions {}")
	writeFile(t, dir, "lib/text.go", "package lib")
	// Unsupported file should be ignored
	writeFile(t, dir, "readme.txt", "hello")
	// Hidden file should be ignored
	writeFile(t, dir, ".hidden.go", "package secret")

	entries, err := Files(dir, nil)
	require.NoError(t, err)

	// Sorted by path
	assert.Equal(t, []FileEntry{
		{Path: "Functions.java", Language: "java"},
		{Path: filepath.Join("lib", "text.go"), Language: "go"},
	}, entries)
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, "node_modules/pkg.go", "package pkg")
	writeFile(t, dir, "target/classes/Gen.java", "class Gen {}")
	writeFile(t, dir, ".hidden/secret.go", "package secret")

	entries, err := Files(dir, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "main.go", entries[0].Path)
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "generated/\n*_gen.go\n")
	writeFile(t, dir, "keep.go", "package p")
	writeFile(t, dir, "skip_gen.go", "package p")
	writeFile(t, dir, "generated/Out.java", "class Out {}")

	entries, err := Files(dir, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.go", entries[0].Path)
}

func TestDiscoverLanguageFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "a.go", "package p")
	writeFile(t, dir, "B.java", "class B {}")

	entries, err := Files(dir, []string{"java"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "java", entries[0].Language)

	entries, err = Files(dir, []string{"python"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.go", "package p")

	err := os.Symlink(filepath.Join(dir, "real.go"), filepath.Join(dir, "link.go"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "real.go", entries[0].Path)
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Files(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
}

func TestIsTestFile(t *testing.T) {
	t.Parallel()
	cases := []struct {
		path string
		want bool
	}{
		{"src/test/java/FooTest.java", true},
		{"tests/Helpers.java", true},
		{"internal/text/text_test.go", true},
		{"MathFunctionsTest.java", true},
		{"MathFunctionsTests.java", true},
		{"src/main/java/MathFunctions.java", false},
		{"internal/text/text.go", false},
		{"testing_utils.go", false},
		{"contest/Rules.java", false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsTestFile(tc.path))
		})
	}
}

func TestSplitIDs(t *testing.T) {
	t.Parallel()

	got := SplitIDs([]string{" builtin.math, builtin.text ", "", "builtin.logical,,", "  "})
	assert.Equal(t, []string{"builtin.math", "builtin.text", "builtin.logical"}, got)
	assert.Empty(t, SplitIDs(nil))
}

func TestSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "lib/Functions.java", "class Functions {}")
	writeFile(t, dir, "lib/FunctionsTest.java", "class FunctionsTest {}")
	writeFile(t, dir, "text.go", "package text")

	ids, err := Sources{Roots: []string{dir}}.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"file:" + filepath.ToSlash(filepath.Join(dir, "lib", "Functions.java")),
		"file:" + filepath.ToSlash(filepath.Join(dir, "text.go")),
	}, ids)
}

func TestSourcesBadRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "text.go", "package text")

	ids, err := Sources{Roots: []string{filepath.Join(dir, "missing"), dir}}.Discover(context.Background())
	require.Error(t, err)
	assert.Len(t, ids, 1)
}

type failing struct{ err error }

func (f failing) Discover(context.Context) ([]string, error) { return []string{"partial"}, f.err }

func TestAll(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ids, err := All{Static{"a, b"}, failing{boom}, Static{"c"}}.Discover(context.Background())
	assert.Equal(t, []string{"a", "b", "partial", "c"}, ids)
	assert.ErrorIs(t, err, boom)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
