package builtin

import (
	"github.com/phobologic/funcatalog/internal/category"
	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

// Text declares the TEXT functions.
func Text() *module.Static {
	var (
		text    = module.One(model.Text)
		integer = module.One(model.Integer)
		num     = module.One(model.Number)
	)

	return module.Define(TextID, func(d *module.Decl) {
		d.Func("BASE", "Returns a text representation of a number, in a specified base radix.").
			In(category.Text).
			Param("Number", "The positive integer number to convert").
			Param("Radix", "The base radix, an integer between 2 and 36").
			Param("Minimum length", "Specifies the minimum number of characters returned; zeroes are added on the left if necessary.").
			Returns(model.Text).
			Signature(integer, integer).
			Signature(integer, integer, integer)

		d.Func("CHAR", "Returns a single text character, given a character code.").
			In(category.Text).
			Param("Char code", "The character code, in the range 1-255.").
			Returns(model.Text).
			Signature(integer)

		d.Func("CLEAN", "Returns a new text string without non-printable characters.").
			In(category.Text).
			Param("Text", "The text to be cleaned.").
			Returns(model.Text).
			Signature(text)

		d.Func("CODE", "Returns the numeric code (0-255) for the first character in a string.").
			In(category.Text).
			Param("Text", "The string containing the character to convert.").
			Returns(model.Integer).
			Signature(text)

		d.Func("CONCATENATE", "Combines a list of strings into a single one.").
			In(category.Text).
			Param("Text", "The strings to combine.").
			Returns(model.Text).
			Signature(module.Many(model.Text))

		d.Func("EXACT", "Returns TRUE if the two text specified are exactly the same (case sensitive compare).").
			In(category.Text).
			Param("Text 1", "The first text to compare.").
			Param("Text 2", "The second text to compare.").
			Returns(model.Boolean).
			Signature(text, text)

		numberValue(d, "DOUBLE_VALUE", "Returns a Double number representing the given text string.", model.Number)

		d.Func("FIND", "Returns the character position of a string inside another text. If the text is not found then -1 is returned.").
			In(category.Text).
			Param("Find text", "The text to look into.").
			Param("Text to search", "The text string to search.").
			Param("Start position", "The position from which the search should start.").
			Returns(model.Integer).
			Signature(text, text).
			Signature(text, text, integer)

		d.Func("FIXED", "Returns the text representing number with the specified decimal places.").
			In(category.Text).
			Param("Number", "The number to print out.").
			Param("Decimals", "The number of decimal places.").
			Param("Omit separators", "The flag to specify if the thousands separators shoud be included or not.").
			Returns(model.Text).
			Signature(num, integer).
			Signature(num, integer, module.One(model.Boolean))

		numberValue(d, "FLOAT_VALUE", "Returns a Float number representing the given text string.", model.Number)
		numberValue(d, "INTEGER_VALUE", "Returns an Integer number representing the given text string.", model.Integer)

		d.Func("LEFT", "Returns the specified number of characters (1 by default) from the left side of the input text.").
			In(category.Text).
			Param("Text", "The input text.").
			Param("Characters num", "The number of characters. Default (not specified) is 1.").
			Returns(model.Text).
			Signature(text).
			Signature(text, integer)

		d.Func("LEN", "Returns the length of the specified text string.").
			In(category.Text).
			Param("Text", "The input text string.").
			Returns(model.Integer).
			Signature(text)

		numberValue(d, "LONG_VALUE", "Returns a Long number representing the given text string.", model.Integer)

		unary(d, "LOWER", "Performs the lower case conversion of the specified text string.", "The input text string.")
		unary(d, "LTRIM", "Clear a string, removing leading whitespaces.", "The text string to be trimmed.")

		d.Func("MID", "Returns the text from the middle of a text string.").
			In(category.Text).
			Param("Text", "The input text.").
			Param("Start", "The initial position to extract the text.").
			Param("Characters num", "The number of characters.").
			Returns(model.Text).
			Signature(text, integer, integer)

		unary(d, "PROPER", "Capitalizes each words of the specified text. The remaining parts of words are in lowercase.", "The input text.")

		d.Func("REPLACE", "Replaces parts of a text string with a different one. "+
			"Starting from a specified position, removes a certain number of characters and then insert the new text.").
			In(category.Text).
			Param("Original Text", "The input text to modify.").
			Param("Start position", "The number of characters. Default (not specified) is 1.").
			Param("Characters num", "The number of characters to remove.").
			Param("New Text", "The text that will replace the old one.").
			Returns(model.Text).
			Signature(text, integer, integer, text)

		d.Func("REPT", "Replicates an input text string for a specified number of times.").
			In(category.Text).
			Param("Original Text", "The input text to replicate.").
			Param("Number of copies", "The desiderata number of copies.").
			Returns(model.Text).
			Signature(text, integer)

		d.Func("RIGHT", "Returns the specified number of characters (1 by default) from the right side of the input text.").
			In(category.Text).
			Param("Text", "The input text.").
			Param("Characters num", "The number of characters. Default (not specified) is 1.").
			Returns(model.Text).
			Signature(text).
			Signature(text, integer)

		unary(d, "RTRIM", "Clear a string, removing trailing whitespaces.", "The text string to be trimmed.")

		d.Func("SEARCH", "Returns the position of a string of text in another string. Search is not case-sensitive").
			In(category.Text).
			Param("Find Text", "The text to find.").
			Param("Text to search", "The text to search.").
			Param("Start position", "The initial position.").
			Returns(model.Integer).
			Signature(text, text).
			Signature(text, text, integer)

		d.Func("SUBSTITUTE", "Substitutes new text for old text in a text string. "+
			"When no occurrence is specified all occurrences are replaced.").
			In(category.Text).
			Param("Original text", "The text to be modified.").
			Param("Old text", "The old text to be replaced.").
			Param("New text", "The new text that will replace the old one.").
			Param("Occurrence", "The occurrence of 'old text' to be replaced.").
			Returns(model.Text).
			Signature(text, text, text).
			Signature(text, text, text, integer)

		d.Func("T", "Returns the text string if the value is a string, otherwise an empty string is returned.").
			In(category.Text).
			Param("Generic value", "The object value to be tested.").
			Returns(model.Text).
			Signature(module.One(model.Any))

		d.Func("TEXT", "Converts a number into a text string according to a specified format.").
			In(category.Text).
			Param("Number", "The number to be formatted.").
			Param("Format", "The format pattern.").
			Returns(model.Text).
			Signature(num, text)

		unary(d, "TRIM", "Clear a string,removing leading and trailing whitespaces.", "The text string to be trimmed.")
		unary(d, "UPPER", "Performs the upper case conversion of the specified text string.", "The input text string.")
	})
}

// unary declares a text-to-text function of one argument.
func unary(d *module.Decl, name, description, param string) {
	d.Func(name, description).
		In(category.Text).
		Param("Text", param).
		Returns(model.Text).
		Signature(module.One(model.Text))
}

// numberValue declares a text-to-number conversion.
func numberValue(d *module.Decl, name, description string, returns model.Type) {
	d.Func(name, description).
		In(category.Text).
		Param("Number (as text)", "The input text string representing a number.").
		Returns(returns).
		Signature(module.One(model.Text))
}
