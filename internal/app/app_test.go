package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reportDoc mirrors the report document shape for assertions.
type reportDoc struct {
	RunID  string             `json:"run_id"`
	Values map[string]float64 `json:"values"`
	Order  []string           `json:"order"`
}

func mustConfig(t *testing.T, cfg Config) *Config {
	t.Helper()
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "error"
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}
	config, err := NewConfig(cfg)
	require.NoError(t, err)
	return config
}

func TestNewConfig(t *testing.T) {
	t.Run("neither path nor model", func(t *testing.T) {
		_, err := NewConfig(Config{WorkerCount: 1})
		assert.ErrorContains(t, err, "either a definitions path or a built-in model")
	})

	t.Run("both path and model", func(t *testing.T) {
		_, err := NewConfig(Config{DefsPath: "./x", Model: "pm", WorkerCount: 1})
		assert.ErrorContains(t, err, "mutually exclusive")
	})

	t.Run("zero workers", func(t *testing.T) {
		_, err := NewConfig(Config{Model: "pm", WorkerCount: 0})
		assert.ErrorContains(t, err, "worker count must be at least 1")
	})
}

func TestBuiltInModelRun(t *testing.T) {
	var out bytes.Buffer
	application, err := NewApp(&out, io.Discard, mustConfig(t, Config{Model: "pm"}))
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background()))

	var doc reportDoc
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.NotEmpty(t, doc.RunID)
	assert.Len(t, doc.Order, 9)
	assert.InDelta(t, 8, doc.Values["geometry.volume_factor"], 1e-9)
	assert.InDelta(t, 137.036, doc.Values["pm.alpha_inverse"], 1e-3)
}

func TestBuiltInModelSeedOverride(t *testing.T) {
	var out bytes.Buffer
	application, err := NewApp(&out, io.Discard, mustConfig(t, Config{
		Model:           "pm",
		SeedAssignments: []string{"topology.b3=91"},
	}))
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background()))

	var doc reportDoc
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.InDelta(t, 10, doc.Values["geometry.volume_factor"], 1e-9)
}

func TestUnknownModel(t *testing.T) {
	_, err := NewApp(io.Discard, io.Discard, mustConfig(t, Config{Model: "nope"}))
	assert.ErrorContains(t, err, "unknown built-in model 'nope'")
}

func TestHCLDefinitionsRun(t *testing.T) {
	dir := t.TempDir()
	defs := `
seed "input.base" {}

const "output.scaled" {
  expr = seed.input.base * 10
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defs.hcl"), []byte(defs), 0o644))

	seeds := filepath.Join(dir, "seeds.yaml")
	require.NoError(t, os.WriteFile(seeds, []byte("input.base: 7\n"), 0o644))

	var out bytes.Buffer
	application, err := NewApp(&out, io.Discard, mustConfig(t, Config{
		DefsPath: dir,
		SeedFile: seeds,
	}))
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background()))

	var doc reportDoc
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, []string{"input.base", "output.scaled"}, doc.Order)
	assert.InDelta(t, 70, doc.Values["output.scaled"], 1e-9)
}

func TestRunWritesReportFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "constants.json")
	application, err := NewApp(io.Discard, io.Discard, mustConfig(t, Config{
		Model:   "pm",
		OutPath: outPath,
	}))
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc reportDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotEmpty(t, doc.RunID)
}

func TestRunMissingSeedFails(t *testing.T) {
	dir := t.TempDir()
	defs := `
seed "lonely" {}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defs.hcl"), []byte(defs), 0o644))

	application, err := NewApp(io.Discard, io.Discard, mustConfig(t, Config{DefsPath: dir}))
	require.NoError(t, err)

	err = application.Run(context.Background())
	assert.ErrorContains(t, err, "resolution failed")
	assert.ErrorContains(t, err, "lonely")
}

func TestRunEmptyGraphIsNoop(t *testing.T) {
	var out bytes.Buffer
	application, err := NewApp(&out, io.Discard, mustConfig(t, Config{DefsPath: t.TempDir()}))
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background()))
	assert.Zero(t, out.Len())
}
