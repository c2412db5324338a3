package catalog

import (
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/phobologic/funcatalog/internal/model"
)

// Snapshot is one immutable build of the catalog. Callers must not modify
// the descriptors it returns.
type Snapshot struct {
	id         string
	builtAt    time.Time
	all        []*model.Function
	index      map[string]*model.Function
	byCategory map[string][]*model.Function
	categories []string
	modules    []string
	warnings   []error
}

func newSnapshot(id string) *Snapshot {
	return &Snapshot{
		id:         id,
		builtAt:    time.Now(),
		index:      make(map[string]*model.Function),
		byCategory: make(map[string][]*model.Function),
	}
}

// add records fn unless its canonical name is taken, in which case the
// existing descriptor is returned.
func (s *Snapshot) add(fn *model.Function) (*model.Function, bool) {
	if existing, ok := s.index[fn.Name]; ok {
		return existing, false
	}
	s.index[fn.Name] = fn
	s.all = append(s.all, fn)
	for _, c := range fn.Categories {
		list := s.byCategory[c]
		if containsFunction(list, fn) {
			continue
		}
		if list == nil {
			s.categories = append(s.categories, c)
		}
		s.byCategory[c] = append(list, fn)
	}
	return nil, true
}

func (s *Snapshot) seal() {
	sort.Strings(s.categories)
}

// ID identifies the build; it changes on every rebuild.
func (s *Snapshot) ID() string { return s.id }

// BuiltAt is when the build started.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Categories returns the category tags seen across all modules, sorted.
func (s *Snapshot) Categories() []string {
	return append([]string(nil), s.categories...)
}

// FunctionsByCategory returns the functions tagged with category. The result
// is empty, never nil, for an unknown category.
func (s *Snapshot) FunctionsByCategory(category string) []*model.Function {
	return append([]*model.Function{}, s.byCategory[category]...)
}

// AllFunctions returns every function once, in discovery order.
func (s *Snapshot) AllFunctions() []*model.Function {
	return append([]*model.Function{}, s.all...)
}

// ExistsFunction reports whether a function has the canonical name name.
func (s *Snapshot) ExistsFunction(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Function looks up a function by canonical name.
func (s *Snapshot) Function(name string) (*model.Function, bool) {
	fn, ok := s.index[name]
	return fn, ok
}

// Modules returns the ids of the modules that contributed, in discovery order.
func (s *Snapshot) Modules() []string {
	return append([]string(nil), s.modules...)
}

// Warnings returns the recoverable problems met during the build.
func (s *Snapshot) Warnings() []error {
	return append([]error(nil), s.warnings...)
}

// Err combines the build warnings into one error, nil when there were none.
func (s *Snapshot) Err() error {
	return multierr.Combine(s.warnings...)
}

func containsFunction(list []*model.Function, fn *model.Function) bool {
	for _, f := range list {
		if f == fn {
			return true
		}
	}
	return false
}
