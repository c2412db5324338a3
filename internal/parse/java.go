package parse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/funcatalog/internal/lang"
	"github.com/phobologic/funcatalog/internal/module"
)

// Annotation families. The legacy family carries the same elements under
// a JRExpr prefix.
const (
	javaLegacyPrefix = "JRExpr"

	javaFunction   = "Function"
	javaParameters = "FunctionParameters"
	javaParameter  = "FunctionParameter"
	javaCategories = "FunctionCategories"
)

// javaAnnotation reads @Function or @JRExprFunction and their companion
// annotations from the modifiers of a method_declaration. A public method
// without them is a structural overload.
func javaAnnotation(def *sitter.Node, source []byte) *annotation {
	mods := lang.Modifiers(def)
	if mods == nil {
		return &annotation{}
	}

	anns := map[string]*sitter.Node{}
	for i := 0; i < int(mods.NamedChildCount()); i++ {
		a := mods.NamedChild(i)
		if a.Type() != "annotation" && a.Type() != "marker_annotation" {
			continue
		}
		anns[annotationName(a, source)] = a
	}

	build := func(prefix string) *module.FunctionMeta {
		fn, ok := anns[prefix+javaFunction]
		if !ok {
			return nil
		}
		args := annotationArgs(fn, source)
		meta := &module.FunctionMeta{
			Name:        javaString(args["name"], source),
			Description: javaString(args["description"], source),
		}
		if meta.Name == "" {
			meta.Name = javaString(args["value"], source)
		}
		if ps, ok := anns[prefix+javaParameters]; ok {
			for _, p := range elements(annotationArgs(ps, source)["value"]) {
				if p.Type() != "annotation" || annotationName(p, source) != prefix+javaParameter {
					continue
				}
				pa := annotationArgs(p, source)
				name := javaString(pa["name"], source)
				if name == "" {
					name = javaString(pa["value"], source)
				}
				meta.Params = append(meta.Params, module.ParamMeta{
					Name:        name,
					Description: javaString(pa["description"], source),
				})
			}
		}
		if cs, ok := anns[prefix+javaCategories]; ok {
			for _, c := range elements(annotationArgs(cs, source)["value"]) {
				if key := categoryKey(c, source); key != "" {
					meta.Categories = append(meta.Categories, key)
				}
			}
		}
		return meta
	}

	current := build("")
	legacy := build(javaLegacyPrefix)
	switch {
	case current != nil:
		// Both schemas on one method: the current one wins.
		return &annotation{meta: current}
	case legacy != nil:
		return &annotation{meta: legacy, legacy: true}
	default:
		return &annotation{}
	}
}

// annotationName returns the simple name of an annotation node.
func annotationName(a *sitter.Node, source []byte) string {
	n := a.ChildByFieldName("name")
	if n == nil {
		return ""
	}
	return simpleName(n, source)
}

// annotationArgs maps element names to value nodes. A single unnamed
// element is stored under "value".
func annotationArgs(a *sitter.Node, source []byte) map[string]*sitter.Node {
	args := map[string]*sitter.Node{}
	list := a.ChildByFieldName("arguments")
	if list == nil {
		return args
	}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		if c.Type() == "element_value_pair" {
			key, value := c.ChildByFieldName("key"), c.ChildByFieldName("value")
			if key != nil && value != nil {
				args[lang.NodeText(key, source)] = value
			}
			continue
		}
		if c.Type() != "comment" {
			args["value"] = c
		}
	}
	return args
}

// elements returns the members of an array initializer, or v itself.
func elements(v *sitter.Node) []*sitter.Node {
	if v == nil {
		return nil
	}
	if v.Type() != "element_value_array_initializer" {
		return []*sitter.Node{v}
	}
	var out []*sitter.Node
	for i := 0; i < int(v.NamedChildCount()); i++ {
		if c := v.NamedChild(i); c.Type() != "comment" {
			out = append(out, c)
		}
	}
	return out
}

// javaString concatenates the string literals of a constant expression
// such as "a " + "b".
func javaString(v *sitter.Node, source []byte) string {
	if v == nil {
		return ""
	}
	if v.Type() == "string_literal" {
		return unquote(lang.NodeText(v, source))
	}
	var b strings.Builder
	for i := 0; i < int(v.NamedChildCount()); i++ {
		b.WriteString(javaString(v.NamedChild(i), source))
	}
	return b.String()
}

// categoryKey reads MATH, CategoryKeys.MATH, "MATH" or Math.class.
func categoryKey(v *sitter.Node, source []byte) string {
	switch v.Type() {
	case "string_literal":
		return unquote(lang.NodeText(v, source))
	case "identifier":
		return lang.NodeText(v, source)
	case "field_access":
		if f := v.ChildByFieldName("field"); f != nil {
			return lang.NodeText(f, source)
		}
	case "class_literal":
		if v.NamedChildCount() > 0 {
			return simpleName(v.NamedChild(0), source)
		}
	}
	return ""
}

// simpleName drops the qualifier of a dotted name.
func simpleName(n *sitter.Node, source []byte) string {
	name := lang.NodeText(n, source)
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		name = name[dot+1:]
	}
	return name
}
