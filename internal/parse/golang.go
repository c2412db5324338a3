package parse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/funcatalog/internal/lang"
	"github.com/phobologic/funcatalog/internal/module"
)

// Directive prefixes. Functions documented with the legacy prefix carry
// their metadata in the legacy schema.
const (
	goPrefix       = "//exprfn:"
	goLegacyPrefix = "//jrexpr:"
)

// goAnnotation reads the directives in the doc comment of a
// function_declaration:
//
//	//exprfn:function NAME description...
//	//exprfn:display "Display name"
//	//exprfn:param NAME description...
//	//exprfn:category KEY...
//	//exprfn:overload NAME
//
// NAME is quoted when it contains spaces.
func goAnnotation(def *sitter.Node, source []byte) *annotation {
	var (
		ann     annotation
		meta    module.FunctionMeta
		hasFunc bool
	)
	for _, line := range docComment(def, source) {
		prefix := goPrefix
		if strings.HasPrefix(line, goLegacyPrefix) {
			prefix = goLegacyPrefix
		} else if !strings.HasPrefix(line, goPrefix) {
			continue
		}
		verb, args := splitWord(line[len(prefix):])

		switch verb {
		case "function":
			hasFunc = true
			ann.legacy = prefix == goLegacyPrefix
			ann.name, meta.Description = splitWord(args)
			if meta.Name == "" {
				meta.Name = ann.name
			}
		case "display":
			meta.Name, _ = splitWord(args)
		case "param":
			name, desc := splitWord(args)
			meta.Params = append(meta.Params, module.ParamMeta{Name: name, Description: desc})
		case "category":
			meta.Categories = append(meta.Categories, strings.Fields(args)...)
		case "overload":
			ann.overloadOf, _ = splitWord(args)
		}
	}

	if ann.overloadOf != "" {
		return &annotation{overloadOf: ann.overloadOf}
	}
	if !hasFunc || ann.name == "" {
		return nil
	}
	ann.meta = &meta
	return &ann
}

// docComment returns the lines of the comment block directly above def.
func docComment(def *sitter.Node, source []byte) []string {
	var lines []string
	row := def.StartPoint().Row
	for n := def.PrevSibling(); n != nil && n.Type() == "comment"; n = n.PrevSibling() {
		if n.EndPoint().Row+1 != row {
			break
		}
		row = n.StartPoint().Row
		lines = append(lines, strings.TrimSpace(lang.NodeText(n, source)))
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}
