package catalog

import (
	"errors"
	"fmt"
)

// ErrDuplicateFunction reports a canonical name claimed by two modules.
var ErrDuplicateFunction = errors.New("duplicate function")

// DuplicateError names the module whose function lost to an earlier one.
type DuplicateError struct {
	Name     string
	Module   string
	Previous string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("function %s from %s already defined by %s", e.Name, e.Module, e.Previous)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateFunction }

// ModuleError wraps a problem met while loading or introspecting a module.
type ModuleError struct {
	Module string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Module, e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }
