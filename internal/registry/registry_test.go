package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func doubler(_ context.Context, inputs map[string]cty.Value) (cty.Value, error) {
	f, _ := inputs["x"].AsBigFloat().Float64()
	return cty.NumberFloatVal(f * 2), nil
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	r.Register("math.double", doubler)

	fn, ok := r.Lookup("math.double")
	require.True(t, ok)
	require.NotNil(t, fn)

	value, err := fn(context.Background(), map[string]cty.Value{"x": cty.NumberIntVal(3)})
	require.NoError(t, err)
	f, _ := value.AsBigFloat().Float64()
	assert.InDelta(t, 6, f, 1e-9)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New()
	r.Register("math.double", doubler)

	assert.PanicsWithValue(t, "formula with name 'math.double' already registered", func() {
		r.Register("math.double", doubler)
	})
}

func TestLookupMissing(t *testing.T) {
	fn, ok := New().Lookup("nope")
	assert.False(t, ok)
	assert.Nil(t, fn)
}

func TestEvaluator(t *testing.T) {
	r := New()
	r.Register("math.double", doubler)

	t.Run("wraps formula with provenance id", func(t *testing.T) {
		ev, err := r.Evaluator("math.double")
		require.NoError(t, err)
		assert.Equal(t, "formula:math.double", ev.ID())

		value, err := ev.Evaluate(context.Background(), map[string]cty.Value{"x": cty.NumberIntVal(4)})
		require.NoError(t, err)
		f, _ := value.AsBigFloat().Float64()
		assert.InDelta(t, 8, f, 1e-9)
	})

	t.Run("unknown formula is an error", func(t *testing.T) {
		ev, err := r.Evaluator("missing")
		assert.Nil(t, ev)
		assert.ErrorContains(t, err, "unknown formula 'missing'")
	})
}

func TestNamesSorted(t *testing.T) {
	r := New()
	r.Register("z.last", doubler)
	r.Register("a.first", doubler)
	r.Register("m.middle", doubler)

	assert.Equal(t, []string{"a.first", "m.middle", "z.last"}, r.Names())
}
