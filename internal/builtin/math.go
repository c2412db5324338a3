package builtin

import (
	"github.com/phobologic/funcatalog/internal/category"
	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

// Math declares the MATH functions.
func Math() *module.Static {
	num, integer := module.One(model.Number), module.One(model.Integer)

	return module.Define(MathID, func(d *module.Decl) {
		d.Func("ABS", "Returns the absolute value of a number.").
			In(category.Math).
			Param("Number", "The number to check.").
			Returns(model.Number).
			Signature(num)

		d.Func("FACT", "Returns the factorial of a number").
			In(category.Math).
			Param("Integer number", "The argument.").
			Returns(model.Integer).
			Signature(integer)

		d.Func("ISEVEN", "Checks if a number is even. "+
			"If a non-integer number is specified, any digits after the decimal point are ignored.").
			In(category.Math).
			Param("Number", "The number to check.").
			Returns(model.Boolean).
			Signature(num)

		d.Func("ISODD", "Checks if a number is odd. "+
			"If a non-integer number is specified, any digits after the decimal point are ignored.").
			In(category.Math).
			Param("Number", "The number to check.").
			Returns(model.Boolean).
			Signature(num)

		d.Func("PRODUCT", "Returns the product of a list of numbers").
			In(category.Math).
			Param("Number", "Argument").
			Returns(model.Number).
			Signature(module.Many(model.Number))

		d.Func("RAND", "Returns a random number between 0.0 and 1.0.").
			In(category.Math).
			Returns(model.Number)

		d.Func("RANDBETWEEN", "Returns an Integer random number between bottom and top range (both inclusive).").
			In(category.Math).
			Param("Bottom range", "Integer number for the bottom range").
			Param("Top range", "Integer number for the top range").
			Returns(model.Integer).
			Signature(integer, integer)

		d.Func("SIGN", "Returns the sign of a number.").
			In(category.Math).
			Param("Number", "The number to check.").
			Returns(model.Integer).
			Signature(num)

		d.Func("SQRT", "Returns the positive square root of a number. The number must be positive").
			In(category.Math).
			Param("Positive number", "Argument.").
			Returns(model.Number).
			Signature(num)

		d.Func("SUM", "Returns the sum of a list of numbers").
			In(category.Math).
			Param("Number", "Addendum").
			Returns(model.Number).
			Signature(module.Many(model.Number))
	})
}
