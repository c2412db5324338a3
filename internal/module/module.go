// Package module defines the registration contract between function
// implementations and the catalog. A module is a named set of callables;
// each callable either carries function-level metadata or is a structural
// overload of a callable that does.
package module

import (
	"context"
	"errors"

	"github.com/phobologic/funcatalog/internal/model"
)

// ErrUnknownModule is returned by a Resolver that has no module for an id.
var ErrUnknownModule = errors.New("unknown module")

// Module is a contributor of callables to the catalog.
type Module interface {
	ID() string
	Callables() []Callable
}

// Resolver turns a module id into a Module.
type Resolver interface {
	Resolve(ctx context.Context, id string) (Module, error)
}

// ParamType is one structural parameter of a callable.
type ParamType struct {
	Type     model.Type
	Repeated bool // array or variadic parameter
}

// ParamMeta is the declared label of one parameter.
type ParamMeta struct {
	Name        string
	Description string
}

// FunctionMeta is the function-level metadata attached to the authoritative
// overload of a function.
type FunctionMeta struct {
	Name        string // display name
	Description string
	Categories  []string
	Params      []ParamMeta
}

// Callable is one overload as enumerated from a module.
type Callable struct {
	Name     string // canonical function name
	Function *FunctionMeta
	Legacy   *FunctionMeta
	Params   []ParamType
	Returns  model.Type
}

// Meta returns the callable's function metadata, preferring the current
// schema over the legacy one. It returns nil for structural-only overloads.
func (c *Callable) Meta() *FunctionMeta {
	if c.Function != nil {
		return c.Function
	}
	return c.Legacy
}

// HasMeta reports whether the callable carries function-level metadata.
func (c *Callable) HasMeta() bool {
	return c.Meta() != nil
}

// Static is a Module backed by a fixed callable list.
type Static struct {
	Name  string
	Calls []Callable
}

// ID implements Module.
func (s *Static) ID() string { return s.Name }

// Callables implements Module.
func (s *Static) Callables() []Callable { return s.Calls }
