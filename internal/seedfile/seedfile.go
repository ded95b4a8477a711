// Package seedfile supplies seed values to the resolver from outside the
// graph: flat YAML files and command-line name=value assignments. Assignments
// override file entries, which in turn override any built-in model defaults.
package seedfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// ParseAssignments converts -seed flags of the form "name=value" into a seed
// map. Values must parse as numbers; seed constants in this system are
// scalars by definition.
func ParseAssignments(assignments []string) (map[string]cty.Value, error) {
	seeds := make(map[string]cty.Value, len(assignments))
	for _, assignment := range assignments {
		name, raw, ok := strings.Cut(assignment, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid seed assignment %q: expected name=value", assignment)
		}
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed value for '%s': %q is not a number", name, raw)
		}
		seeds[name] = cty.NumberFloatVal(number)
	}
	return seeds, nil
}

// LoadFile reads a flat YAML mapping of seed names to values. Numbers, bools
// and strings are supported; nested mappings are rejected, matching the flat
// seed-map contract of the resolver.
func LoadFile(path string) (map[string]cty.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	seeds := make(map[string]cty.Value, len(raw))
	for name, value := range raw {
		converted, err := toCty(value)
		if err != nil {
			return nil, fmt.Errorf("seed '%s' in %s: %w", name, path, err)
		}
		seeds[name] = converted
	}
	return seeds, nil
}

// Merge overlays seed maps left to right: a name present in a later map wins.
func Merge(maps ...map[string]cty.Value) map[string]cty.Value {
	merged := make(map[string]cty.Value)
	for _, m := range maps {
		for name, value := range m {
			merged[name] = value
		}
	}
	return merged
}

func toCty(value any) (cty.Value, error) {
	switch v := value.(type) {
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case string:
		return cty.StringVal(v), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported value type %T; seed files are flat scalar mappings", value)
	}
}
