package builtin

import (
	"github.com/phobologic/funcatalog/internal/category"
	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

// DateTime declares the DATE_TIME functions.
func DateTime() *module.Static {
	return module.Define(DateTimeID, func(d *module.Decl) {
		// The authoritative overload takes no arguments; both parameters
		// come from the wider overloads and are therefore optional.
		d.Func("DATE", "Returns the current date or the specified one, eventually formatted.").
			In(category.DateTime).
			Param("Date pattern", "The pattern to format the output string").
			Param("Date", "The date to format").
			Returns(model.Text).
			Signature().
			Signature(module.One(model.Text)).
			Signature(module.One(model.Text), module.One(model.Date))
	})
}
