// Package lang provides a language registry mapping file extensions to
// tree-sitter languages, their embedded query files, and the hooks that
// read function signatures from definition nodes.
package lang

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/funcatalog/internal/model"
)

//go:embed queries/*.scm
var queryFS embed.FS

var whitespaceRe = regexp.MustCompile(`\s+`)

// Param is one structural parameter read from source.
type Param struct {
	Name     string
	TypeName string // as written, without the repetition marker
	Repeated bool   // variadic, or an array/slice type
}

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language
	queryOnce  sync.Once
	query      *sitter.Query
	queryErr   error

	// Params returns the parameters of a @definition.function node.
	Params func(def *sitter.Node, source []byte) []Param

	// Result returns the declared result type of a definition node, or ""
	// when there is none.
	Result func(def *sitter.Node, source []byte) string

	// Exported reports whether other code may call the definition.
	Exported func(def *sitter.Node, source []byte) bool

	// MapType maps a source type name to a semantic type tag.
	MapType func(typeName string) model.Type
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetFunctionQuery returns the compiled tree-sitter query (safe to share across goroutines).
func (l *Language) GetFunctionQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// mapType looks typeName up in table after dropping any package or
// namespace qualifier. Unknown names map to model.Any.
func mapType(table map[string]model.Type, typeName string) model.Type {
	name := strings.TrimLeft(CollapseWhitespace(typeName), "*")
	if t, ok := table[name]; ok {
		return t
	}
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		if t, ok := table[name[dot+1:]]; ok {
			return t
		}
	}
	return model.Any
}
