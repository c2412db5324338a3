// Package introspect turns the callables of a module into function
// descriptors, inferring optional and repeatable parameters from the shape
// of each function's overloads.
package introspect

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

var (
	// ErrParamMismatch reports that structural overloads and parameter
	// metadata disagree on the number of parameters.
	ErrParamMismatch = errors.New("parameter metadata mismatch")

	// ErrRepeatableNotLast reports a repeatable parameter followed by others.
	ErrRepeatableNotLast = errors.New("repeatable parameter is not last")

	errNoMeta = errors.New("first overload carries no function metadata")
)

// MismatchError describes a disagreement between a function's parameter
// metadata and one of its overloads. Overload is -1 when the metadata
// describes parameters that no overload accepts.
type MismatchError struct {
	Function string
	Overload int
	Declared int // metadata slots
	Supplied int // structural parameters
}

func (e *MismatchError) Error() string {
	if e.Overload < 0 {
		return fmt.Sprintf("%s: metadata describes %d parameters, overloads supply %d",
			e.Function, e.Declared, e.Supplied)
	}
	return fmt.Sprintf("%s: overload %d declares %d parameters, metadata describes %d",
		e.Function, e.Overload, e.Supplied, e.Declared)
}

func (e *MismatchError) Unwrap() error { return ErrParamMismatch }

// Reconcile merges the overloads of one function into a descriptor.
//
// calls[0] must carry the function metadata. The parameters of calls[0] are
// mandatory; every position a later overload adds beyond the running cursor
// is optional. Each position takes its type from the overload that first
// reaches it and is repeatable when that type is repeated. Structural
// parameters with no metadata slot are dropped and reported.
//
// The returned error holds warnings only; the descriptor is usable whenever
// it is non-nil.
func Reconcile(calls []module.Callable) (*model.Function, error) {
	if len(calls) == 0 {
		return nil, fmt.Errorf("reconcile: no overloads")
	}
	first := &calls[0]
	meta := first.Meta()
	if meta == nil {
		return nil, fmt.Errorf("%s: %w", first.Name, errNoMeta)
	}

	fn := &model.Function{
		Name:        first.Name,
		DisplayName: meta.Name,
		Description: meta.Description,
		Returns:     first.Returns,
		Categories:  append([]string(nil), meta.Categories...),
		Parameters:  make([]model.Parameter, len(meta.Params)),
	}
	if fn.Returns == "" {
		fn.Returns = model.Any
	}
	for i, pm := range meta.Params {
		fn.Parameters[i] = model.Parameter{Name: pm.Name, Description: pm.Description, Type: model.Any}
	}
	// No labels at all: the overloads alone define the parameter list.
	if len(meta.Params) == 0 {
		for i := 0; i < widestOverload(calls); i++ {
			fn.Parameters = append(fn.Parameters, model.Parameter{
				Name: fmt.Sprintf("arg%d", i+1),
				Type: model.Any,
			})
		}
	}

	cursor := 0
	slots := len(fn.Parameters)
	for i := 0; i < len(calls) && cursor < slots; i++ {
		types := calls[i].Params
		optional := i > 0
		for ; cursor < len(types) && cursor < slots; cursor++ {
			p := &fn.Parameters[cursor]
			p.Optional = optional
			p.Repeatable = types[cursor].Repeated
			p.Type = types[cursor].Type
			if p.Type == "" {
				p.Type = model.Any
			}
		}
	}

	var err error
	for i := range calls {
		if n := len(calls[i].Params); n > slots {
			err = multierr.Append(err, &MismatchError{
				Function: fn.Name,
				Overload: i,
				Declared: slots,
				Supplied: n,
			})
		}
	}
	if widest := widestOverload(calls); widest < slots {
		err = multierr.Append(err, &MismatchError{
			Function: fn.Name,
			Overload: -1,
			Declared: slots,
			Supplied: widest,
		})
	}
	for i := 0; i < slots-1; i++ {
		if fn.Parameters[i].Repeatable {
			err = multierr.Append(err, fmt.Errorf("%s: parameter %d (%s): %w",
				fn.Name, i, fn.Parameters[i].Name, ErrRepeatableNotLast))
		}
	}

	return fn, err
}

func widestOverload(calls []module.Callable) int {
	widest := 0
	for i := range calls {
		if n := len(calls[i].Params); n > widest {
			widest = n
		}
	}
	return widest
}
