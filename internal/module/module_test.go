package module

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/funcatalog/internal/model"
)

func TestDefineExpandsSignatures(t *testing.T) {
	t.Parallel()

	m := Define("text", func(d *Decl) {
		d.Func("LEFT", "Returns characters from the left.").
			In("TEXT").
			Param("Text", "The input text.").
			Param("Characters num", "The number of characters.").
			Returns(model.Text).
			Signature(One(model.Text)).
			Signature(One(model.Text), One(model.Integer))
		d.Func("RAND", "Returns a random number.").Returns(model.Number)
	})

	require.Equal(t, "text", m.ID())
	calls := m.Callables()
	require.Len(t, calls, 3)

	assert.Equal(t, "LEFT", calls[0].Name)
	require.NotNil(t, calls[0].Function)
	assert.Nil(t, calls[0].Legacy)
	assert.Equal(t, "LEFT", calls[0].Function.Name)
	assert.Equal(t, []string{"TEXT"}, calls[0].Function.Categories)
	assert.Len(t, calls[0].Function.Params, 2)
	assert.Len(t, calls[0].Params, 1)

	assert.Equal(t, "LEFT", calls[1].Name)
	assert.False(t, calls[1].HasMeta())
	assert.Len(t, calls[1].Params, 2)

	// A function without signatures still yields one zero-arity callable.
	assert.Equal(t, "RAND", calls[2].Name)
	assert.True(t, calls[2].HasMeta())
	assert.Empty(t, calls[2].Params)
	assert.Equal(t, model.Number, calls[2].Returns)
}

func TestDefineLegacyAndDisplay(t *testing.T) {
	t.Parallel()

	m := Define("legacy", func(d *Decl) {
		d.Func("DOUBLE_VALUE", "Parses a double.").Display("Double value").Legacy()
	})

	c := m.Callables()[0]
	assert.Nil(t, c.Function)
	require.NotNil(t, c.Legacy)
	assert.Equal(t, "Double value", c.Meta().Name)
}

func TestCallableMetaPrefersCurrentSchema(t *testing.T) {
	t.Parallel()

	c := Callable{
		Name:     "ABS",
		Function: &FunctionMeta{Name: "new"},
		Legacy:   &FunctionMeta{Name: "old"},
	}
	assert.Equal(t, "new", c.Meta().Name)

	c.Function = nil
	assert.Equal(t, "old", c.Meta().Name)

	c.Legacy = nil
	assert.Nil(t, c.Meta())
	assert.False(t, c.HasMeta())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(&Static{Name: "a"}))
	require.NoError(t, r.Register(&Static{Name: "b"}))
	require.Error(t, r.Register(&Static{Name: "a"}))
	require.Error(t, r.Register(&Static{}))
	require.Error(t, r.Register(nil))

	assert.Equal(t, []string{"a", "b"}, r.IDs())

	m, err := r.Resolve(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "b", m.ID())

	_, err = r.Resolve(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrUnknownModule))

	assert.True(t, r.Unregister("a"))
	assert.False(t, r.Unregister("a"))
	assert.Equal(t, []string{"b"}, r.IDs())
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(context.Context, string) (Module, error) { return nil, f.err }

func TestChain(t *testing.T) {
	t.Parallel()

	first := NewRegistry()
	second := NewRegistry()
	require.NoError(t, second.Register(&Static{Name: "x"}))

	chain := Chain{first, second}
	m, err := chain.Resolve(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", m.ID())

	_, err = chain.Resolve(context.Background(), "y")
	assert.ErrorIs(t, err, ErrUnknownModule)

	boom := errors.New("boom")
	_, err = Chain{failingResolver{boom}, second}.Resolve(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}
