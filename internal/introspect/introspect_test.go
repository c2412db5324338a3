package introspect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/phobologic/funcatalog/internal/model"
	"github.com/phobologic/funcatalog/internal/module"
)

func meta(name string, params ...string) *module.FunctionMeta {
	m := &module.FunctionMeta{Name: name, Description: name + " desc", Categories: []string{"MATH"}}
	for _, p := range params {
		m.Params = append(m.Params, module.ParamMeta{Name: p, Description: p + " desc"})
	}
	return m
}

func types(ts ...module.ParamType) []module.ParamType { return ts }

func TestReconcileSingleOverloadAllMandatory(t *testing.T) {
	t.Parallel()

	fn, err := Reconcile([]module.Callable{{
		Name:     "RANDBETWEEN",
		Function: meta("RANDBETWEEN", "Bottom range", "Top range"),
		Params:   types(module.One(model.Integer), module.One(model.Integer)),
		Returns:  model.Integer,
	}})
	require.NoError(t, err)
	require.Len(t, fn.Parameters, 2)
	for _, p := range fn.Parameters {
		assert.False(t, p.Optional, p.Name)
		assert.False(t, p.Repeatable, p.Name)
		assert.Equal(t, model.Integer, p.Type)
	}
	assert.Equal(t, "Bottom range", fn.Parameters[0].Name)
	assert.Equal(t, "Bottom range desc", fn.Parameters[0].Description)
	assert.Equal(t, model.Integer, fn.Returns)
	assert.Equal(t, []string{"MATH"}, fn.Categories)
}

func TestReconcileTrailingOptional(t *testing.T) {
	t.Parallel()

	// DATE(), DATE(format), DATE(format, date)
	fn, err := Reconcile([]module.Callable{
		{Name: "DATE", Function: meta("DATE", "Date pattern", "Date"), Returns: model.Text},
		{Name: "DATE", Params: types(module.One(model.Text))},
		{Name: "DATE", Params: types(module.One(model.Text), module.One(model.Date))},
	})
	require.NoError(t, err)
	require.Len(t, fn.Parameters, 2)
	assert.True(t, fn.Parameters[0].Optional)
	assert.Equal(t, model.Text, fn.Parameters[0].Type)
	assert.True(t, fn.Parameters[1].Optional)
	assert.Equal(t, model.Date, fn.Parameters[1].Type)
	assert.Equal(t, 0, fn.MinArgs())
	assert.Equal(t, 2, fn.MaxArgs())
}

func TestReconcileMandatoryThenOptional(t *testing.T) {
	t.Parallel()

	fn, err := Reconcile([]module.Callable{
		{
			Name:     "FIND",
			Function: meta("FIND", "Find text", "Text to search", "Start position"),
			Params:   types(module.One(model.Text), module.One(model.Text)),
		},
		{Name: "FIND", Params: types(module.One(model.Text), module.One(model.Text), module.One(model.Integer))},
	})
	require.NoError(t, err)
	assert.False(t, fn.Parameters[0].Optional)
	assert.False(t, fn.Parameters[1].Optional)
	assert.True(t, fn.Parameters[2].Optional)
	assert.Equal(t, model.Integer, fn.Parameters[2].Type)
	assert.Equal(t, "FIND(Find text, Text to search, [Start position])", fn.Signature())
}

func TestReconcileRepeatable(t *testing.T) {
	t.Parallel()

	fn, err := Reconcile([]module.Callable{{
		Name:     "SUM",
		Function: meta("SUM", "Number"),
		Params:   types(module.Many(model.Number)),
	}})
	require.NoError(t, err)
	require.Len(t, fn.Parameters, 1)
	assert.True(t, fn.Parameters[0].Repeatable)
	assert.False(t, fn.Parameters[0].Optional)
	assert.Equal(t, -1, fn.MaxArgs())
	assert.Equal(t, "SUM(Number...)", fn.Signature())
}

func TestReconcileCursorNeverResets(t *testing.T) {
	t.Parallel()

	// The second overload re-declares position 0 with another type; only
	// position 1 is taken from it.
	fn, err := Reconcile([]module.Callable{
		{Name: "F", Function: meta("F", "a", "b"), Params: types(module.One(model.Integer))},
		{Name: "F", Params: types(module.One(model.Text), module.Many(model.Number))},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Integer, fn.Parameters[0].Type)
	assert.False(t, fn.Parameters[0].Optional)
	assert.Equal(t, model.Number, fn.Parameters[1].Type)
	assert.True(t, fn.Parameters[1].Optional)
	assert.True(t, fn.Parameters[1].Repeatable)
}

func TestReconcileExcessParamsDroppedWithWarning(t *testing.T) {
	t.Parallel()

	fn, err := Reconcile([]module.Callable{
		{Name: "NOT", Function: meta("NOT", "Argument"), Params: types(module.One(model.Boolean))},
		{Name: "NOT", Params: types(module.One(model.Boolean), module.One(model.Boolean))},
	})
	require.NotNil(t, fn)
	require.Len(t, fn.Parameters, 1)
	assert.False(t, fn.Parameters[0].Optional)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParamMismatch))
	var mm *MismatchError
	require.True(t, errors.As(err, &mm))
	assert.Equal(t, 1, mm.Overload)
	assert.Equal(t, 1, mm.Declared)
	assert.Equal(t, 2, mm.Supplied)
	assert.Contains(t, mm.Error(), "overload 1 declares 2 parameters")
}

func TestReconcileUnfilledMetadataWarns(t *testing.T) {
	t.Parallel()

	fn, err := Reconcile([]module.Callable{
		{Name: "PROPER", Function: meta("PROPER", "Text", "Extra"), Params: types(module.One(model.Text))},
	})
	require.NotNil(t, fn)
	var mm *MismatchError
	require.True(t, errors.As(err, &mm))
	assert.Equal(t, -1, mm.Overload)
	assert.Contains(t, mm.Error(), "metadata describes 2 parameters")
}

func TestReconcileZeroMetadataParams(t *testing.T) {
	t.Parallel()

	fn, err := Reconcile([]module.Callable{
		{Name: "NOW", Function: meta("NOW")},
		{Name: "NOW", Params: types(module.One(model.Text))},
	})
	require.NoError(t, err)
	require.Len(t, fn.Parameters, 1)
	assert.True(t, fn.Parameters[0].Optional)
	assert.Equal(t, "arg1", fn.Parameters[0].Name)
	assert.Equal(t, model.Text, fn.Parameters[0].Type)
}

func TestReconcileRepeatableNotLast(t *testing.T) {
	t.Parallel()

	_, err := Reconcile([]module.Callable{{
		Name:     "BAD",
		Function: meta("BAD", "a", "b"),
		Params:   types(module.Many(model.Number), module.One(model.Number)),
	}})
	assert.ErrorIs(t, err, ErrRepeatableNotLast)
}

func TestReconcileRequiresMetadata(t *testing.T) {
	t.Parallel()

	_, err := Reconcile(nil)
	require.Error(t, err)

	fn, err := Reconcile([]module.Callable{{Name: "X"}})
	assert.Nil(t, fn)
	assert.ErrorIs(t, err, errNoMeta)
}

func TestReconcileLegacySchema(t *testing.T) {
	t.Parallel()

	fn, err := Reconcile([]module.Callable{{
		Name:   "ABS",
		Legacy: meta("Absolute", "Number"),
		Params: types(module.One(model.Number)),
	}})
	require.NoError(t, err)
	assert.Equal(t, "ABS", fn.Name)
	assert.Equal(t, "Absolute", fn.DisplayName)
	assert.Equal(t, model.Any, fn.Returns)
}

func TestFunctionsGroupsByName(t *testing.T) {
	t.Parallel()

	m := &module.Static{Name: "sample", Calls: []module.Callable{
		// Plain overload enumerated before its annotated sibling.
		{Name: "LEFT", Params: types(module.One(model.Text), module.One(model.Integer))},
		{Name: "helper", Params: types(module.One(model.Text))},
		{Name: "LEFT", Function: meta("LEFT", "Text", "Characters num"), Params: types(module.One(model.Text))},
		{Name: "ABS", Function: meta("ABS", "Number"), Params: types(module.One(model.Number))},
	}}

	fns, err := Functions(m)
	require.NoError(t, err)
	require.Len(t, fns, 2)

	assert.Equal(t, "LEFT", fns[0].Name)
	assert.Equal(t, "sample", fns[0].Module)
	assert.False(t, fns[0].Parameters[0].Optional)
	assert.True(t, fns[0].Parameters[1].Optional)
	assert.Equal(t, model.Integer, fns[0].Parameters[1].Type)

	assert.Equal(t, "ABS", fns[1].Name)
}

func TestFunctionsEmptyModule(t *testing.T) {
	t.Parallel()

	fns, err := Functions(&module.Static{Name: "empty", Calls: []module.Callable{
		{Name: "orphan", Params: types(module.One(model.Text))},
	}})
	assert.NoError(t, err)
	assert.Empty(t, fns)
}

func TestFunctionsAggregatesWarnings(t *testing.T) {
	t.Parallel()

	m := &module.Static{Name: "warn", Calls: []module.Callable{
		{Name: "A", Function: meta("A"), Params: types(module.One(model.Text))},
		{Name: "A", Params: nil},
		{Name: "B", Function: meta("B", "x"), Params: types(module.One(model.Text), module.One(model.Text))},
		{Name: "C", Function: meta("C", "x", "y"), Params: types(module.One(model.Text))},
	}}

	fns, err := Functions(m)
	require.Len(t, fns, 3)
	assert.Len(t, multierr.Errors(err), 2)
}
