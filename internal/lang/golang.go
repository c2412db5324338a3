package lang

import (
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/phobologic/funcatalog/internal/model"
)

func init() {
	Languages["go"] = &Language{
		Name:       "go",
		Extensions: []string{".go"},
		lang:       golang.GetLanguage(),
		Params:     goParams,
		Result:     goResult,
		Exported:   goExported,
		MapType:    goMapType,
	}
}

var goTypes = map[string]model.Type{
	"int": model.Integer, "int8": model.Integer, "int16": model.Integer,
	"int32": model.Integer, "int64": model.Integer, "uint": model.Integer,
	"uint8": model.Integer, "uint16": model.Integer, "uint32": model.Integer,
	"uint64": model.Integer, "big.Int": model.Integer,
	"float32": model.Number, "float64": model.Number, "big.Float": model.Number,
	"big.Rat": model.Number,
	"string": model.Text, "rune": model.Text,
	"time.Time": model.Date,
	"bool": model.Boolean,
}

func goMapType(typeName string) model.Type {
	return mapType(goTypes, typeName)
}

// goParams walks the parameter_list of a function_declaration. A
// declaration naming several parameters yields one Param per name.
func goParams(def *sitter.Node, source []byte) []Param {
	list := def.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}
	var params []Param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		decl := list.NamedChild(i)
		typeNode := decl.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		typeName, repeated := goElemType(typeNode, source)
		if decl.Type() == "variadic_parameter_declaration" {
			repeated = true
			typeName = CollapseWhitespace(NodeText(typeNode, source))
		}

		var names []string
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			if c := decl.NamedChild(j); c.Type() == "identifier" {
				names = append(names, NodeText(c, source))
			}
		}
		if len(names) == 0 {
			names = []string{""}
		}
		for _, n := range names {
			params = append(params, Param{Name: n, TypeName: typeName, Repeated: repeated})
		}
	}
	return params
}

// goElemType unwraps a slice type.
func goElemType(typeNode *sitter.Node, source []byte) (string, bool) {
	if typeNode.Type() == "slice_type" {
		if elem := typeNode.ChildByFieldName("element"); elem != nil {
			return CollapseWhitespace(NodeText(elem, source)), true
		}
	}
	return CollapseWhitespace(NodeText(typeNode, source)), false
}

// goResult returns the first result type. A trailing error result is
// ignored.
func goResult(def *sitter.Node, source []byte) string {
	result := def.ChildByFieldName("result")
	if result == nil {
		return ""
	}
	if result.Type() != "parameter_list" {
		return CollapseWhitespace(NodeText(result, source))
	}
	for i := 0; i < int(result.NamedChildCount()); i++ {
		decl := result.NamedChild(i)
		if t := decl.ChildByFieldName("type"); t != nil {
			return CollapseWhitespace(NodeText(t, source))
		}
	}
	return ""
}

func goExported(def *sitter.Node, source []byte) bool {
	name := def.ChildByFieldName("name")
	if name == nil {
		return false
	}
	r, _ := utf8.DecodeRuneInString(NodeText(name, source))
	return unicode.IsUpper(r)
}
