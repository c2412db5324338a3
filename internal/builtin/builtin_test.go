package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/funcatalog/internal/catalog"
	"github.com/phobologic/funcatalog/internal/category"
	"github.com/phobologic/funcatalog/internal/introspect"
	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

func TestModulesIntrospectCleanly(t *testing.T) {
	t.Parallel()

	want := map[string]int{MathID: 10, TextID: 28, LogicalID: 7, DateTimeID: 1}
	for _, m := range Modules() {
		t.Run(m.ID(), func(t *testing.T) {
			t.Parallel()
			fns, err := introspect.Functions(m)
			require.NoError(t, err)
			assert.Len(t, fns, want[m.ID()])
			for _, fn := range fns {
				assert.NotEmpty(t, fn.Description, fn.Name)
				assert.NotEmpty(t, fn.Categories, fn.Name)
			}
		})
	}
}

func TestIDsMatchModules(t *testing.T) {
	t.Parallel()

	mods := Modules()
	require.Len(t, mods, len(IDs()))
	for i, id := range IDs() {
		assert.Equal(t, id, mods[i].ID())
	}
}

func describe(t *testing.T, m module.Module, name string) *model.Function {
	t.Helper()
	fns, err := introspect.Functions(m)
	require.NoError(t, err)
	for _, fn := range fns {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %s not declared by %s", name, m.ID())
	return nil
}

func TestSignatures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		module module.Module
		name   string
		want   string
		min    int
		max    int
	}{
		{Math(), "ABS", "ABS(Number)", 1, 1},
		{Math(), "SUM", "SUM(Number...)", 1, -1},
		{Math(), "RAND", "RAND()", 0, 0},
		{Math(), "RANDBETWEEN", "RANDBETWEEN(Bottom range, Top range)", 2, 2},
		{Logical(), "AND", "AND(Argument...)", 1, -1},
		{Logical(), "IF", "IF(Test condition, Value 1 (true), Value 2 (false))", 3, 3},
		{DateTime(), "DATE", "DATE([Date pattern], [Date])", 0, 2},
		{Text(), "FIND", "FIND(Find text, Text to search, [Start position])", 2, 3},
		{Text(), "LEFT", "LEFT(Text, [Characters num])", 1, 2},
		{Text(), "SUBSTITUTE", "SUBSTITUTE(Original text, Old text, New text, [Occurrence])", 3, 4},
		{Text(), "CONCATENATE", "CONCATENATE(Text...)", 1, -1},
		{Text(), "MID", "MID(Text, Start, Characters num)", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fn := describe(t, tt.module, tt.name)
			assert.Equal(t, tt.want, fn.Signature())
			assert.Equal(t, tt.min, fn.MinArgs())
			assert.Equal(t, tt.max, fn.MaxArgs())
		})
	}
}

func TestDateParameterTypes(t *testing.T) {
	t.Parallel()

	fn := describe(t, DateTime(), "DATE")
	require.Len(t, fn.Parameters, 2)
	assert.Equal(t, model.Text, fn.Parameters[0].Type)
	assert.Equal(t, model.Date, fn.Parameters[1].Type)
	assert.Equal(t, model.Text, fn.Returns)
	assert.True(t, fn.HasCategory(category.DateTime))
}

func TestRegistryServesCatalog(t *testing.T) {
	t.Parallel()

	reg := Registry()
	assert.Equal(t, IDs(), reg.IDs())
	require.Error(t, Register(reg), "registering twice must fail")

	c := catalog.New(catalog.DiscovererFunc(func(context.Context) ([]string, error) {
		return IDs(), nil
	}), reg, catalog.Options{})
	snap := c.Snapshot(context.Background())

	require.NoError(t, snap.Err())
	assert.Len(t, snap.AllFunctions(), 46)
	assert.Equal(t, []string{category.DateTime, category.Logical, category.Math, category.Text}, snap.Categories())
	assert.Len(t, snap.FunctionsByCategory(category.Logical), 7)
	assert.Empty(t, snap.FunctionsByCategory(category.Financial))
}
