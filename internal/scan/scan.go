// Package scan finds the catalog functions referenced by an expression.
//
// The scan is a substring heuristic rather than a lexer. A name counts as a
// call when it sits at the start of the text or after an operator or
// opening bracket, and is followed by "(" with only blanks in between.
package scan

import (
	"strings"

	"github.com/phobologic/funcatalog/internal/model"
)

// prefixChars are the characters that may directly precede a call.
const prefixChars = "(+-/*!&|[{"

// excludedPrefixes open field, parameter, variable and expression
// references. A name right after one of them is part of the reference.
var excludedPrefixes = []string{"$P{", "$F{", "$V{", "$X{"}

// Functions returns the functions in fns that text calls, in the order of
// fns. Each function is reported at most once, for its first valid
// occurrence. Empty text yields an empty result.
func Functions(text string, fns []*model.Function) []*model.Function {
	found := []*model.Function{}
	if text == "" {
		return found
	}
	for _, fn := range fns {
		if fn == nil || fn.Name == "" {
			continue
		}
		if calls(text, fn.Name) {
			found = append(found, fn)
		}
	}
	return found
}

// calls reports whether text contains a valid call of name.
func calls(text, name string) bool {
	cursor := 0
	for cursor <= len(text) {
		i := strings.Index(text[cursor:], name)
		if i < 0 {
			return false
		}
		i += cursor
		end := i + len(name)
		if validPrefix(text[:i]) && validSuffix(text[end:]) {
			return true
		}
		cursor = end
	}
	return false
}

func validPrefix(prefix string) bool {
	if prefix == "" {
		return true
	}
	p := strings.TrimSpace(strings.ReplaceAll(prefix, "\t", ""))
	if p == "" {
		return false
	}
	for _, ex := range excludedPrefixes {
		if strings.HasSuffix(p, ex) {
			return false
		}
	}
	return strings.IndexByte(prefixChars, p[len(p)-1]) >= 0
}

func validSuffix(suffix string) bool {
	for i := 0; i < len(suffix); i++ {
		switch suffix[i] {
		case ' ', '\t':
			continue
		case '(':
			return true
		default:
			return false
		}
	}
	return false
}
