// Package usage aggregates scan results over many expressions into a
// report of which catalog functions are used, how often, and together.
package usage

import (
	"context"
	"sort"

	"github.com/phobologic/funcatalog/internal/model"
)

// Scanner finds the functions referenced by one expression.
type Scanner interface {
	Scan(ctx context.Context, text string) []*model.Function
}

// Build scans every expression and ranks the functions of catalog by the
// number of expressions referencing them. Functions of catalog that no
// expression references are listed as unused, sorted by name.
func Build(ctx context.Context, s Scanner, exprs []model.Expression, catalog []*model.Function) *model.UsageReport {
	report := &model.UsageReport{}
	uses := make(map[string]*model.FunctionUsage)
	type pairKey struct{ first, second string }
	pairs := make(map[pairKey]int)

	for _, e := range exprs {
		if ctx.Err() != nil {
			break
		}
		found := s.Scan(ctx, e.Text)
		names := make([]string, 0, len(found))
		for _, fn := range found {
			if contains(names, fn.Name) {
				continue
			}
			names = append(names, fn.Name)
		}
		report.References = append(report.References, model.Reference{
			Expression: e.ID,
			Functions:  names,
		})

		for _, n := range names {
			u := uses[n]
			if u == nil {
				u = &model.FunctionUsage{Name: n}
				uses[n] = u
			}
			u.Count++
			u.Expressions = append(u.Expressions, e.ID)
		}

		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		for i := range sorted {
			for j := i + 1; j < len(sorted); j++ {
				pairs[pairKey{sorted[i], sorted[j]}]++
			}
		}
	}

	for _, u := range uses {
		report.Functions = append(report.Functions, *u)
	}
	sort.Slice(report.Functions, func(i, j int) bool {
		a, b := report.Functions[i], report.Functions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	for k, n := range pairs {
		report.CoUsages = append(report.CoUsages, model.CoUsage{First: k.first, Second: k.second, Count: n})
	}
	sort.Slice(report.CoUsages, func(i, j int) bool {
		a, b := report.CoUsages[i], report.CoUsages[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.First != b.First {
			return a.First < b.First
		}
		return a.Second < b.Second
	})

	for _, fn := range catalog {
		if _, ok := uses[fn.Name]; !ok {
			report.Unused = append(report.Unused, fn.Name)
		}
	}
	sort.Strings(report.Unused)

	return report
}

// Select returns a report with only the top most used functions, and the
// references and co-usages among them. If top is <= 0 or covers every
// function, r is returned unchanged.
func Select(r *model.UsageReport, top int) *model.UsageReport {
	if top <= 0 || top >= len(r.Functions) {
		return r
	}

	selected := r.Functions[:top]
	keep := make(map[string]struct{}, top)
	for i := range selected {
		keep[selected[i].Name] = struct{}{}
	}

	var refs []model.Reference
	for i := range r.References {
		ref := r.References[i]
		var names []string
		for _, n := range ref.Functions {
			if _, ok := keep[n]; ok {
				names = append(names, n)
			}
		}
		if len(names) > 0 {
			refs = append(refs, model.Reference{Expression: ref.Expression, Functions: names})
		}
	}

	var co []model.CoUsage
	for i := range r.CoUsages {
		c := &r.CoUsages[i]
		_, firstOK := keep[c.First]
		_, secondOK := keep[c.Second]
		if firstOK && secondOK {
			co = append(co, *c)
		}
	}

	return &model.UsageReport{
		References: refs,
		Functions:  selected,
		CoUsages:   co,
		Unused:     r.Unused,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
