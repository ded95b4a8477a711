package hclgraph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/constgrid/internal/graph"
	"github.com/vk/constgrid/internal/registry"
	"github.com/vk/constgrid/internal/resolver"
	"github.com/zclconf/go-cty/cty"
)

func writeDefs(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func numValue(t *testing.T, values map[string]cty.Value, name string) float64 {
	t.Helper()
	value, ok := values[name]
	require.True(t, ok, "value for %s missing", name)
	f, _ := value.AsBigFloat().Float64()
	return f
}

func TestLoadExpressions(t *testing.T) {
	dir := t.TempDir()
	writeDefs(t, dir, "chain.hcl", `
seed "topology.b3" {
  description = "third Betti number"
}

const "geometry.scaled" {
  expr = seed.topology.b3 * 3
}

const "geometry.shifted" {
  expr = const.geometry.scaled + 1
}
`)

	loader := NewLoader(registry.New())
	g, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 3, g.Len())

	snapshot := g.Finalize()

	t.Run("implicit dependencies discovered", func(t *testing.T) {
		scaled, ok := snapshot.Node("geometry.scaled")
		require.True(t, ok)
		assert.Equal(t, []string{"topology.b3"}, scaled.Inputs)

		shifted, ok := snapshot.Node("geometry.shifted")
		require.True(t, ok)
		assert.Equal(t, []string{"geometry.scaled"}, shifted.Inputs)
	})

	t.Run("expression evaluator carries file provenance", func(t *testing.T) {
		scaled, _ := snapshot.Node("geometry.scaled")
		require.NotNil(t, scaled.Evaluator)
		assert.Contains(t, scaled.Evaluator.ID(), "expr:chain.hcl:")
	})

	t.Run("end to end resolve", func(t *testing.T) {
		result, err := resolver.New(snapshot).ResolveNumbers(context.Background(),
			map[string]float64{"topology.b3": 7})
		require.NoError(t, err)
		assert.Equal(t, []string{"topology.b3", "geometry.scaled", "geometry.shifted"}, result.Order)
		assert.InDelta(t, 21, numValue(t, result.Values, "geometry.scaled"), 1e-9)
		assert.InDelta(t, 22, numValue(t, result.Values, "geometry.shifted"), 1e-9)
	})
}

func TestLoadFormulaReference(t *testing.T) {
	reg := registry.New()
	reg.Register("math.sum", func(_ context.Context, inputs map[string]cty.Value) (cty.Value, error) {
		total := 0.0
		for _, value := range inputs {
			f, _ := value.AsBigFloat().Float64()
			total += f
		}
		return cty.NumberFloatVal(total), nil
	})

	dir := t.TempDir()
	writeDefs(t, dir, "formula.hcl", `
seed "a" {}
seed "b" {}

const "total" {
  formula = "math.sum"
  inputs  = ["a", "b"]
}
`)

	g, err := NewLoader(reg).Load(context.Background(), dir)
	require.NoError(t, err)

	snapshot := g.Finalize()
	total, ok := snapshot.Node("total")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, total.Inputs)
	require.NotNil(t, total.Evaluator)
	assert.Equal(t, "formula:math.sum", total.Evaluator.ID())

	result, err := resolver.New(snapshot).ResolveNumbers(context.Background(),
		map[string]float64{"a": 2, "b": 5})
	require.NoError(t, err)
	assert.InDelta(t, 7, numValue(t, result.Values, "total"), 1e-9)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown formula", func(t *testing.T) {
		dir := t.TempDir()
		writeDefs(t, dir, "bad.hcl", `
const "x" {
  formula = "no.such.formula"
}
`)
		_, err := NewLoader(registry.New()).Load(context.Background(), dir)
		assert.ErrorContains(t, err, "unknown formula 'no.such.formula'")
	})

	t.Run("expr and formula are mutually exclusive", func(t *testing.T) {
		dir := t.TempDir()
		writeDefs(t, dir, "bad.hcl", `
seed "a" {}

const "x" {
  expr    = seed.a
  formula = "whatever"
}
`)
		_, err := NewLoader(registry.New()).Load(context.Background(), dir)
		assert.ErrorContains(t, err, "mutually exclusive")
	})

	t.Run("malformed HCL", func(t *testing.T) {
		dir := t.TempDir()
		writeDefs(t, dir, "broken.hcl", `seed "a" {`)
		_, err := NewLoader(registry.New()).Load(context.Background(), dir)
		assert.ErrorContains(t, err, "failed to parse HCL file")
	})
}

func TestLoadUnwiredConst(t *testing.T) {
	dir := t.TempDir()
	writeDefs(t, dir, "unwired.hcl", `
seed "a" {}

const "pending" {
  inputs = ["a"]
}
`)

	g, err := NewLoader(registry.New()).Load(context.Background(), dir)
	require.NoError(t, err)

	snapshot := g.Finalize()
	assert.Equal(t, []string{"pending"}, snapshot.MissingEvaluators())

	_, err = resolver.New(snapshot).ResolveNumbers(context.Background(), map[string]float64{"a": 1})
	var missing *graph.MissingEvaluatorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"pending"}, missing.Nodes)
}

func TestLoadEmptyDirectory(t *testing.T) {
	g, err := NewLoader(registry.New()).Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, g.Len())
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDefs(t, dir, "single.hcl", `
seed "a" {}

const "b" {
  expr = seed.a + 1
}
`)

	g, err := NewLoader(registry.New()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}
