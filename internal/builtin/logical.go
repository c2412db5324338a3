package builtin

import (
	"github.com/phobologic/funcatalog/internal/category"
	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

// Logical declares the LOGICAL functions.
func Logical() *module.Static {
	boolean, anything := module.One(model.Boolean), module.One(model.Any)

	return module.Define(LogicalID, func(d *module.Decl) {
		d.Func("AND", "Returns true if all arguments are considered true, false otherwise. "+
			"Argument must be a logical result or a direct boolean value.").
			In(category.Logical).
			Param("Argument", "A boolean expression or value.").
			Returns(model.Boolean).
			Signature(module.Many(model.Boolean))

		d.Func("FALSE", "Returns the logical value FALSE.").
			In(category.Logical).
			Returns(model.Boolean)

		d.Func("TRUE", "Returns the logical value TRUE.").
			In(category.Logical).
			Returns(model.Boolean)

		d.Func("NOT", "Returns the negation of the specified boolean expression.").
			In(category.Logical).
			Param("Argument", "A boolean expression or value.").
			Returns(model.Boolean).
			Signature(boolean)

		d.Func("OR", "Returns true if any of the arguments is considered true, false otherwise. "+
			"Argument must be a logical result or a direct boolean value.").
			In(category.Logical).
			Param("Argument", "A boolean expression or value.").
			Returns(model.Boolean).
			Signature(module.Many(model.Boolean))

		d.Func("IF", "Returns one of two values, depending on a test condition.").
			In(category.Logical).
			Param("Test condition", "An expression returning a boolean value.").
			Param("Value 1 (true)", "The value returned when the test is true.").
			Param("Value 2 (false)", "The value returned when the test is false.").
			Signature(boolean, anything, anything)

		d.Func("EQUALS", "Checks if the two specified objects are equals.").
			In(category.Logical).
			Param("Object 1", "The first element to be compared.").
			Param("Object 2", "The second element to be compared.").
			Returns(model.Boolean).
			Signature(anything, anything)
	})
}
