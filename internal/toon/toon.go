// Package toon implements TOON (Token-Oriented Object Notation) encoding
// of catalog listings and usage reports.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/funcatalog/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// EncodeCatalog lists the contributing modules, the functions and any
// build warnings.
func EncodeCatalog(modules []string, fns []*model.Function, warnings []error) string {
	var parts []string

	moduleRows := make([][]string, len(modules))
	for i, m := range modules {
		moduleRows[i] = []string{m}
	}
	parts = append(parts, formatTabular("modules", []string{"id"}, moduleRows))

	var fnRows [][]string
	for _, fn := range fns {
		fnRows = append(fnRows, []string{
			fn.Name,
			fn.Module,
			string(fn.Returns),
			strings.Join(fn.Categories, " "),
			fn.Signature(),
		})
	}
	parts = append(parts, formatTabular("functions", []string{"name", "module", "returns", "categories", "signature"}, fnRows))

	if len(warnings) > 0 {
		parts = append(parts, encodeWarnings(warnings))
	}

	return strings.Join(parts, "\n")
}

// EncodeCategories lists categories with their labels and sizes.
func EncodeCategories(cats []model.CategoryInfo) string {
	var rows [][]string
	for i := range cats {
		c := &cats[i]
		rows = append(rows, []string{c.Key, c.Display, strconv.Itoa(c.Functions), c.Description})
	}
	return formatTabular("categories", []string{"key", "display", "functions", "description"}, rows)
}

// EncodeFunction describes one function and its parameters.
func EncodeFunction(fn *model.Function) string {
	parts := []string{
		fmt.Sprintf("name: %s", encodeValue(fn.Name)),
		fmt.Sprintf("display: %s", encodeValue(fn.DisplayName)),
		fmt.Sprintf("module: %s", encodeValue(fn.Module)),
		fmt.Sprintf("description: %s", encodeValue(fn.Description)),
		fmt.Sprintf("returns: %s", encodeValue(string(fn.Returns))),
		formatList("categories", fn.Categories),
		fmt.Sprintf("signature: %s", encodeValue(fn.Signature())),
	}

	var rows [][]string
	for i := range fn.Parameters {
		p := &fn.Parameters[i]
		rows = append(rows, []string{
			p.Name,
			string(p.Type),
			yesNo(p.Optional),
			yesNo(p.Repeatable),
			p.Description,
		})
	}
	parts = append(parts, formatTabular("params", []string{"name", "type", "optional", "repeatable", "description"}, rows))

	return strings.Join(parts, "\n")
}

// EncodeUsage converts a usage report into TOON format.
func EncodeUsage(r *model.UsageReport) string {
	var parts []string

	var fnRows [][]string
	for i := range r.Functions {
		u := &r.Functions[i]
		fnRows = append(fnRows, []string{u.Name, strconv.Itoa(u.Count), strings.Join(u.Expressions, " ")})
	}
	parts = append(parts, formatTabular("functions", []string{"name", "count", "expressions"}, fnRows))

	var coRows [][]string
	for i := range r.CoUsages {
		c := &r.CoUsages[i]
		coRows = append(coRows, []string{c.First, c.Second, strconv.Itoa(c.Count)})
	}
	parts = append(parts, formatTabular("cousage", []string{"first", "second", "count"}, coRows))

	var refRows [][]string
	for i := range r.References {
		ref := &r.References[i]
		refRows = append(refRows, []string{ref.Expression, strings.Join(ref.Functions, " ")})
	}
	parts = append(parts, formatTabular("references", []string{"expression", "functions"}, refRows))

	parts = append(parts, formatList("unused", r.Unused))

	return strings.Join(parts, "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func encodeWarnings(warnings []error) string {
	rows := make([][]string, len(warnings))
	for i, w := range warnings {
		rows[i] = []string{w.Error()}
	}
	return formatTabular("warnings", []string{"message"}, rows)
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

// formatList renders a primitive array inline.
func formatList(name string, values []string) string {
	encoded := make([]string, len(values))
	for i, v := range values {
		encoded[i] = encodeValue(v)
	}
	if len(encoded) == 0 {
		return fmt.Sprintf("%s[0]:", name)
	}
	return fmt.Sprintf("%s[%d]: %s", name, len(values), strings.Join(encoded, ","))
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}

// EncodeModules lists the contributing modules with the number of
// functions each one supplied to the catalog.
func EncodeModules(modules []string, fns []*model.Function) string {
	counts := make(map[string]int, len(modules))
	for _, fn := range fns {
		counts[fn.Module]++
	}
	rows := make([][]string, len(modules))
	for i, m := range modules {
		rows[i] = []string{m, strconv.Itoa(counts[m])}
	}
	return formatTabular("modules", []string{"id", "functions"}, rows)
}
