// Package parse extracts annotated callables from source files using
// tree-sitter.
package parse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/funcatalog/internal/lang"
	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

// annotation is the function metadata attached to one definition.
type annotation struct {
	name       string // canonical name, when it differs from the definition's
	meta       *module.FunctionMeta
	legacy     bool
	overloadOf string
}

// annotationReaders read the metadata of a definition node, per language.
// A nil annotation means the definition is not part of any function.
var annotationReaders = map[string]func(def *sitter.Node, source []byte) *annotation{
	"go":   goAnnotation,
	"java": javaAnnotation,
}

// Callables parses source and returns one callable per exported,
// annotated definition, in source order. Exported definitions without
// metadata are returned as structural overloads of the function they share
// a name with. The parser must be created for l.
func Callables(ctx context.Context, l *lang.Language, parser *sitter.Parser, source []byte) ([]module.Callable, error) {
	if len(source) == 0 {
		return nil, nil
	}
	read, ok := annotationReaders[l.Name]
	if !ok {
		return nil, fmt.Errorf("no annotation reader for %s", l.Name)
	}
	query, err := l.GetFunctionQuery()
	if err != nil {
		return nil, err
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", l.Name, err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var calls []module.Callable
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var nameNode, defNode *sitter.Node
		for _, c := range match.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "name":
				nameNode = c.Node
			case "definition.function":
				defNode = c.Node
			}
		}
		if nameNode == nil || defNode == nil || !l.Exported(defNode, source) {
			continue
		}

		ann := read(defNode, source)
		if ann == nil {
			continue
		}
		c := module.Callable{Name: lang.NodeText(nameNode, source)}
		switch {
		case ann.overloadOf != "":
			c.Name = ann.overloadOf
		case ann.meta != nil:
			if ann.name != "" {
				c.Name = ann.name
			}
			if ann.legacy {
				c.Legacy = ann.meta
			} else {
				c.Function = ann.meta
			}
		}

		for _, p := range l.Params(defNode, source) {
			c.Params = append(c.Params, module.ParamType{Type: l.MapType(p.TypeName), Repeated: p.Repeated})
		}
		c.Returns = model.Any
		if r := l.Result(defNode, source); r != "" {
			c.Returns = l.MapType(r)
		}
		calls = append(calls, c)
	}
	return calls, nil
}

// unquote decodes a string literal, falling back to the text between the
// quotes when it is not valid Go syntax.
func unquote(lit string) string {
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	return strings.Trim(lit, `"`)
}

// splitWord splits "NAME rest" into NAME and rest. NAME may be a quoted
// string when it contains spaces.
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		if q, err := strconv.QuotedPrefix(s); err == nil {
			return unquote(q), strings.TrimSpace(s[len(q):])
		}
	}
	word, rest, _ := strings.Cut(s, " ")
	return word, strings.TrimSpace(rest)
}
