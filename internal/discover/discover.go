// Package discover lists the contributor modules a catalog build
// introspects: configured module ids, and annotated library source files
// found under source roots.
package discover

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/multierr"

	"github.com/phobologic/funcatalog/internal/lang"
	"github.com/phobologic/funcatalog/internal/source"
)

// Discoverer lists module ids.
type Discoverer interface {
	Discover(ctx context.Context) ([]string, error)
}

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to the source root
	Language string
}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"vendor":       {},
	"testdata":     {},
	"build":        {},
	"dist":         {},
	"target":       {},
	"out":          {},
	"bin":          {},
}

// SplitIDs flattens module id entries. Each entry may hold several
// comma-separated ids; ids are trimmed and empty ones dropped.
func SplitIDs(entries []string) []string {
	var ids []string
	for _, e := range entries {
		for _, id := range strings.Split(e, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Static discovers a fixed list of module id entries, split with SplitIDs.
type Static []string

// Discover implements Discoverer.
func (s Static) Discover(context.Context) ([]string, error) {
	return SplitIDs(s), nil
}

// Sources discovers one module per annotated source file under Roots.
// Test files are skipped.
type Sources struct {
	Roots     []string
	Languages []string // empty means every supported language
}

// Discover implements Discoverer. A root that cannot be walked is reported
// without hiding the files of the other roots.
func (s Sources) Discover(ctx context.Context) ([]string, error) {
	var ids []string
	var errs error
	for _, root := range s.Roots {
		if err := ctx.Err(); err != nil {
			return ids, err
		}
		files, err := Files(root, s.Languages)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("walking %s: %w", root, err))
			continue
		}
		for _, f := range files {
			if IsTestFile(f.Path) {
				continue
			}
			ids = append(ids, source.ID(filepath.Join(root, f.Path)))
		}
	}
	return ids, errs
}

// All concatenates the ids of several discoverers in order.
type All []Discoverer

// Discover implements Discoverer.
func (a All) Discover(ctx context.Context) ([]string, error) {
	var ids []string
	var errs error
	for _, d := range a {
		got, err := d.Discover(ctx)
		ids = append(ids, got...)
		errs = multierr.Append(errs, err)
	}
	return ids, errs
}

// Files discovers parseable source files under root.
// If languages is non-empty, only files matching one of the listed languages are returned.
func Files(root string, languages []string) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	langSet := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		langSet[l] = struct{}{}
	}
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[filepath.ToSlash(rel)]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		langName := lang.ForExtension(filepath.Ext(name))
		if langName == "" {
			return nil
		}

		if len(langSet) > 0 {
			if _, ok := langSet[langName]; !ok {
				return nil
			}
		}

		results = append(results, FileEntry{Path: rel, Language: langName})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// IsTestFile reports whether path looks like test code rather than a
// function library.
func IsTestFile(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, part := range strings.Split(slashed, "/")[:strings.Count(slashed, "/")] {
		switch part {
		case "test", "tests", "testdata":
			return true
		}
	}
	base := filepath.Base(slashed)
	return strings.HasSuffix(base, "_test.go") ||
		strings.HasSuffix(base, "Test.java") ||
		strings.HasSuffix(base, "Tests.java")
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
