// Package builtin declares the function modules shipped with funcatalog.
package builtin

import (
	"fmt"

	"github.com/phobologic/funcatalog/internal/module"
)

// Module ids.
const (
	MathID     = "builtin.math"
	TextID     = "builtin.text"
	LogicalID  = "builtin.logical"
	DateTimeID = "builtin.datetime"
)

// Modules returns the built-in modules in their canonical order.
func Modules() []module.Module {
	return []module.Module{Math(), Text(), Logical(), DateTime()}
}

// IDs returns the built-in module ids in their canonical order.
func IDs() []string {
	return []string{MathID, TextID, LogicalID, DateTimeID}
}

// Register adds every built-in module to reg.
func Register(reg *module.Registry) error {
	for _, m := range Modules() {
		if err := reg.Register(m); err != nil {
			return fmt.Errorf("registering built-in module: %w", err)
		}
	}
	return nil
}

// Registry returns a registry holding only the built-in modules.
func Registry() *module.Registry {
	reg := module.NewRegistry()
	// Ids are distinct constants, so registration cannot fail.
	_ = Register(reg)
	return reg
}
