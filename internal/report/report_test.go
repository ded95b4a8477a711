package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/constgrid/internal/graph"
	"github.com/vk/constgrid/internal/resolver"
	"github.com/zclconf/go-cty/cty"
)

func sampleResult(t *testing.T) *resolver.Result {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddSeed("base"))
	require.NoError(t, g.AddDerived("doubled", []string{"base"}, graph.EvaluatorFunc("double",
		func(_ context.Context, inputs map[string]cty.Value) (cty.Value, error) {
			f, _ := inputs["base"].AsBigFloat().Float64()
			return cty.NumberFloatVal(f * 2), nil
		})))

	result, err := resolver.New(g.Finalize()).ResolveNumbers(context.Background(),
		map[string]float64{"base": 4})
	require.NoError(t, err)
	return result
}

func TestBuild(t *testing.T) {
	result := sampleResult(t)
	doc, err := Build(result)
	require.NoError(t, err)

	assert.Equal(t, result.RunID, doc.RunID)
	assert.False(t, doc.GeneratedAt.IsZero())
	assert.Equal(t, []string{"base", "doubled"}, doc.Order)

	require.Len(t, doc.Values, 2)
	assert.InDelta(t, 4, doc.Values["base"].(float64), 1e-9)
	assert.InDelta(t, 8, doc.Values["doubled"].(float64), 1e-9)

	require.Len(t, doc.Trace, 2)
	assert.Equal(t, "base", doc.Trace[0].Node)
	assert.Equal(t, "seed", doc.Trace[0].EvaluatorID)
	assert.Empty(t, doc.Trace[0].Inputs)

	assert.Equal(t, "doubled", doc.Trace[1].Node)
	assert.Equal(t, "double", doc.Trace[1].EvaluatorID)
	require.Contains(t, doc.Trace[1].Inputs, "base")
	assert.InDelta(t, 4, doc.Trace[1].Inputs["base"].(float64), 1e-9)
}

func TestWriteRoundTrip(t *testing.T) {
	result := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, result))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, result.RunID, doc.RunID)
	assert.Equal(t, result.Order, doc.Order)
	assert.InDelta(t, 8, doc.Values["doubled"].(float64), 1e-9)
}

func TestWriteFile(t *testing.T) {
	result := sampleResult(t)
	path := filepath.Join(t.TempDir(), "constants.json")

	require.NoError(t, WriteFile(path, result))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, result.RunID, doc.RunID)
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "constants.json"), sampleResult(t))
	assert.ErrorContains(t, err, "failed to create report file")
}

func TestCtyValueConversion(t *testing.T) {
	cases := []struct {
		name  string
		value cty.Value
		want  any
	}{
		{"number", cty.NumberFloatVal(1.5), 1.5},
		{"string", cty.StringVal("hello"), "hello"},
		{"bool", cty.True, true},
		{"null", cty.NullVal(cty.Number), nil},
		{"object", cty.ObjectVal(map[string]cty.Value{"n": cty.NumberIntVal(2)}), map[string]any{"n": float64(2)}},
		{"tuple", cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}), []any{float64(1), float64(2)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ctyValueToInterface(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
