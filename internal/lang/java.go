package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/phobologic/funcatalog/internal/model"
)

func init() {
	Languages["java"] = &Language{
		Name:       "java",
		Extensions: []string{".java"},
		lang:       java.GetLanguage(),
		Params:     javaParams,
		Result:     javaResult,
		Exported:   javaExported,
		MapType:    javaMapType,
	}
}

var javaTypes = map[string]model.Type{
	"int": model.Integer, "Integer": model.Integer, "long": model.Integer,
	"Long": model.Integer, "short": model.Integer, "Short": model.Integer,
	"byte": model.Integer, "Byte": model.Integer, "BigInteger": model.Integer,
	"double": model.Number, "Double": model.Number, "float": model.Number,
	"Float": model.Number, "Number": model.Number, "BigDecimal": model.Number,
	"String": model.Text, "CharSequence": model.Text, "char": model.Text,
	"Character": model.Text,
	"Date": model.Date, "Timestamp": model.Date, "Time": model.Date,
	"Calendar": model.Date, "LocalDate": model.Date, "LocalDateTime": model.Date,
	"boolean": model.Boolean, "Boolean": model.Boolean,
}

func javaMapType(typeName string) model.Type {
	return mapType(javaTypes, typeName)
}

// javaParams walks the formal_parameters of a method_declaration. Varargs
// and array parameters are repeated.
func javaParams(def *sitter.Node, source []byte) []Param {
	list := def.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}
	var params []Param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		switch p.Type() {
		case "formal_parameter":
			var param Param
			if n := p.ChildByFieldName("name"); n != nil {
				param.Name = NodeText(n, source)
			}
			if t := p.ChildByFieldName("type"); t != nil {
				param.TypeName, param.Repeated = javaElemType(t, source)
			}
			params = append(params, param)
		case "spread_parameter":
			param := Param{Repeated: true}
			for j := 0; j < int(p.NamedChildCount()); j++ {
				c := p.NamedChild(j)
				switch c.Type() {
				case "modifiers":
				case "variable_declarator":
					if n := c.ChildByFieldName("name"); n != nil {
						param.Name = NodeText(n, source)
					}
				default:
					if param.TypeName == "" {
						param.TypeName = CollapseWhitespace(NodeText(c, source))
					}
				}
			}
			params = append(params, param)
		}
	}
	return params
}

func javaElemType(t *sitter.Node, source []byte) (string, bool) {
	if t.Type() == "array_type" {
		if elem := t.ChildByFieldName("element"); elem != nil {
			return CollapseWhitespace(NodeText(elem, source)), true
		}
	}
	return CollapseWhitespace(NodeText(t, source)), false
}

func javaResult(def *sitter.Node, source []byte) string {
	t := def.ChildByFieldName("type")
	if t == nil || t.Type() == "void_type" {
		return ""
	}
	return CollapseWhitespace(NodeText(t, source))
}

// javaExported reports whether the method is declared public.
func javaExported(def *sitter.Node, _ []byte) bool {
	mods := Modifiers(def)
	if mods == nil {
		return false
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		if mods.Child(i).Type() == "public" {
			return true
		}
	}
	return false
}

// Modifiers returns the modifiers node of a Java declaration, or nil.
func Modifiers(def *sitter.Node) *sitter.Node {
	for i := 0; i < int(def.NamedChildCount()); i++ {
		if c := def.NamedChild(i); c.Type() == "modifiers" {
			return c
		}
	}
	return nil
}
