package introspect

import (
	"go.uber.org/multierr"

	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

// Functions returns one descriptor per logical function in m, in the order
// the functions' first metadata-bearing callables appear.
//
// Callables carrying metadata open a group keyed by callable name; callables
// without metadata join the group of the same name, or are ignored when no
// such group exists. Within a group, metadata-bearing callables come first,
// each part keeping the module's enumeration order.
//
// The returned error aggregates reconciliation warnings. A module with no
// annotated callables yields no functions and no error.
func Functions(m module.Module) ([]*model.Function, error) {
	calls := m.Callables()

	groups := make(map[string][]module.Callable)
	var order []string
	for _, c := range calls {
		if !c.HasMeta() {
			continue
		}
		if _, ok := groups[c.Name]; !ok {
			order = append(order, c.Name)
		}
		groups[c.Name] = append(groups[c.Name], c)
	}
	for _, c := range calls {
		if c.HasMeta() {
			continue
		}
		if g, ok := groups[c.Name]; ok {
			groups[c.Name] = append(g, c)
		}
	}

	var (
		fns []*model.Function
		err error
	)
	for _, name := range order {
		fn, rerr := Reconcile(groups[name])
		err = multierr.Append(err, rerr)
		if fn == nil {
			continue
		}
		fn.Module = m.ID()
		fns = append(fns, fn)
	}
	return fns, err
}
