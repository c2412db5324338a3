// Package model defines core data structures for funcatalog.
package model

import (
	"strings"
)

// Type is the semantic type tag of a parameter or return value.
type Type string

const (
	Any     Type = "any"
	Integer Type = "integer"
	Number  Type = "number"
	Text    Type = "text"
	Date    Type = "date"
	Boolean Type = "boolean"
)

// Parameter describes one formal parameter of a function.
// Name is a human label, not a key.
type Parameter struct {
	Name        string
	Description string
	Type        Type
	Optional    bool
	Repeatable  bool
}

// Function describes one logical function, reconciled from all of its overloads.
type Function struct {
	Name        string // canonical name, the lookup key
	DisplayName string
	Description string
	Returns     Type
	Categories  []string
	Parameters  []Parameter
	Module      string // id of the contributing module
}

// HasCategory reports whether the function is tagged with category.
func (f *Function) HasCategory(category string) bool {
	for _, c := range f.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// MinArgs returns the number of mandatory parameters.
func (f *Function) MinArgs() int {
	n := 0
	for i := range f.Parameters {
		if !f.Parameters[i].Optional {
			n++
		}
	}
	return n
}

// MaxArgs returns the maximum number of arguments, or -1 when the last
// parameter is repeatable.
func (f *Function) MaxArgs() int {
	if n := len(f.Parameters); n > 0 && f.Parameters[n-1].Repeatable {
		return -1
	}
	return len(f.Parameters)
}

// Signature renders the function as NAME(p1, [p2], p3...), with optional
// parameters in brackets and repeatable ones suffixed with "...".
func (f *Function) Signature() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i := range f.Parameters {
		p := &f.Parameters[i]
		if i > 0 {
			b.WriteString(", ")
		}
		label := p.Name
		if p.Repeatable {
			label += "..."
		}
		if p.Optional {
			label = "[" + label + "]"
		}
		b.WriteString(label)
	}
	b.WriteByte(')')
	return b.String()
}

// CategoryInfo summarises one category of a catalog build with its
// resolved labels.
type CategoryInfo struct {
	Key         string
	Display     string
	Description string
	Functions   int
}

// Expression is a piece of expression text to scan, labelled by the caller
// (for example "report.jrxml:42").
type Expression struct {
	ID   string
	Text string
}

// Reference records the functions found in one expression.
type Reference struct {
	Expression string
	Functions  []string
}

// FunctionUsage counts how many expressions reference a function.
type FunctionUsage struct {
	Name        string
	Count       int
	Expressions []string
}

// CoUsage counts the expressions that reference both First and Second.
// First sorts before Second.
type CoUsage struct {
	First  string
	Second string
	Count  int
}

// UsageReport is the aggregated result of scanning many expressions.
type UsageReport struct {
	References []Reference
	Functions  []FunctionUsage // most used first
	CoUsages   []CoUsage
	Unused     []string
}
