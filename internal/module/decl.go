package module

import (
	"github.com/phobologic/funcatalog/internal/model"
)

// Decl collects function declarations for a module defined in Go code.
type Decl struct {
	funcs []*FuncDecl
}

// FuncDecl declares one logical function and the structural signatures it
// accepts. The first signature is the authoritative overload; later ones
// only describe shape.
type FuncDecl struct {
	name       string
	meta       FunctionMeta
	legacy     bool
	returns    model.Type
	signatures [][]ParamType
}

// Define builds a Static module from the declarations made by fn.
func Define(id string, fn func(d *Decl)) *Static {
	d := &Decl{}
	fn(d)
	m := &Static{Name: id}
	for _, f := range d.funcs {
		m.Calls = append(m.Calls, f.callables()...)
	}
	return m
}

// Func starts a declaration of the function with canonical name name.
// The display name defaults to the canonical name.
func (d *Decl) Func(name, description string) *FuncDecl {
	f := &FuncDecl{
		name:    name,
		meta:    FunctionMeta{Name: name, Description: description},
		returns: model.Any,
	}
	d.funcs = append(d.funcs, f)
	return f
}

// Display sets the user-facing name.
func (f *FuncDecl) Display(name string) *FuncDecl {
	f.meta.Name = name
	return f
}

// In tags the function with categories.
func (f *FuncDecl) In(categories ...string) *FuncDecl {
	f.meta.Categories = append(f.meta.Categories, categories...)
	return f
}

// Param appends a parameter label.
func (f *FuncDecl) Param(name, description string) *FuncDecl {
	f.meta.Params = append(f.meta.Params, ParamMeta{Name: name, Description: description})
	return f
}

// Returns sets the return type.
func (f *FuncDecl) Returns(t model.Type) *FuncDecl {
	f.returns = t
	return f
}

// Signature appends an accepted structural signature.
func (f *FuncDecl) Signature(params ...ParamType) *FuncDecl {
	f.signatures = append(f.signatures, params)
	return f
}

// Legacy attaches the metadata using the legacy schema.
func (f *FuncDecl) Legacy() *FuncDecl {
	f.legacy = true
	return f
}

func (f *FuncDecl) callables() []Callable {
	sigs := f.signatures
	if len(sigs) == 0 {
		sigs = [][]ParamType{nil}
	}
	calls := make([]Callable, 0, len(sigs))
	for i, sig := range sigs {
		c := Callable{Name: f.name, Params: sig, Returns: f.returns}
		if i == 0 {
			meta := f.meta
			if f.legacy {
				c.Legacy = &meta
			} else {
				c.Function = &meta
			}
		}
		calls = append(calls, c)
	}
	return calls
}

// One returns a single-valued parameter of type t.
func One(t model.Type) ParamType {
	return ParamType{Type: t}
}

// Many returns a repeated parameter of type t.
func Many(t model.Type) ParamType {
	return ParamType{Type: t, Repeated: true}
}
