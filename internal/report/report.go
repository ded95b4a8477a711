// Package report renders a resolve run as a JSON constants document, the
// machine-readable artifact downstream generators consume. Values are
// converted from cty into plain Go types so the output is ordinary JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vk/constgrid/internal/resolver"
	"github.com/zclconf/go-cty/cty"
)

// Document is the serialized shape of one resolve run.
type Document struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Values      map[string]any `json:"values"`
	Order       []string       `json:"order"`
	Trace       []TraceRecord  `json:"trace"`
}

// TraceRecord is the serialized provenance of one node, listed in evaluation
// order so diffs between runs stay readable.
type TraceRecord struct {
	Node        string         `json:"node"`
	EvaluatorID string         `json:"evaluator"`
	Inputs      map[string]any `json:"inputs,omitempty"`
	ResolvedAt  time.Time      `json:"resolved_at"`
}

// Build converts a resolver result into its serializable document form.
func Build(result *resolver.Result) (*Document, error) {
	values := make(map[string]any, len(result.Values))
	for name, value := range result.Values {
		converted, err := ctyValueToInterface(value)
		if err != nil {
			return nil, fmt.Errorf("failed to convert value of '%s': %w", name, err)
		}
		values[name] = converted
	}

	trace := make([]TraceRecord, 0, len(result.Trace))
	for _, name := range result.Order {
		entry, ok := result.Trace[name]
		if !ok {
			continue
		}
		record := TraceRecord{
			Node:        entry.Node,
			EvaluatorID: entry.EvaluatorID,
			ResolvedAt:  entry.ResolvedAt,
		}
		if len(entry.Inputs) > 0 {
			record.Inputs = make(map[string]any, len(entry.Inputs))
			for input, value := range entry.Inputs {
				converted, err := ctyValueToInterface(value)
				if err != nil {
					return nil, fmt.Errorf("failed to convert input '%s' of '%s': %w", input, name, err)
				}
				record.Inputs[input] = converted
			}
		}
		trace = append(trace, record)
	}

	return &Document{
		RunID:       result.RunID,
		GeneratedAt: time.Now().UTC(),
		Values:      values,
		Order:       result.Order,
		Trace:       trace,
	}, nil
}

// Write renders the result as indented JSON to w.
func Write(w io.Writer, result *resolver.Result) error {
	doc, err := Build(result)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// WriteFile renders the result as indented JSON to the named file.
func WriteFile(path string, result *resolver.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := Write(f, result); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// ctyValueToInterface converts a cty.Value to a plain Go value for JSON
// encoding.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			converted, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", val.Type().FriendlyName())
}
