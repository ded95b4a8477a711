package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// DefsPath points at an .hcl definition file or a directory of them.
	DefsPath string
	// Model selects a built-in graph instead of HCL definitions, e.g. "pm".
	Model string

	// SeedFile is an optional YAML file of seed values.
	SeedFile string
	// SeedAssignments are -seed name=value overrides, applied last.
	SeedAssignments []string

	// OutPath is the report destination; empty writes to stdout.
	OutPath string

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DefsPath == "" && cfg.Model == "" {
		return nil, errors.New("either a definitions path or a built-in model must be configured")
	}
	if cfg.DefsPath != "" && cfg.Model != "" {
		return nil, errors.New("definitions path and built-in model are mutually exclusive")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("worker count must be at least 1")
	}
	return &cfg, nil
}
