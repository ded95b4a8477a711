package hclgraph

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// parseRefTraversal extracts a node reference from an HCL variable traversal.
// A valid reference has root `seed` or `const` followed by one or more
// attribute steps, which join into the dotted node name: seed.topology.b3
// refers to the node "topology.b3". Anything else is not a dependency.
func parseRefTraversal(traversal hcl.Traversal) (string, bool) {
	if len(traversal) < 2 {
		return "", false
	}
	root := traversal.RootName()
	if root != "seed" && root != "const" {
		return "", false
	}

	parts := make([]string, 0, len(traversal)-1)
	for _, step := range traversal[1:] {
		attr, ok := step.(hcl.TraverseAttr)
		if !ok {
			break
		}
		parts = append(parts, attr.Name)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "."), true
}

// exprPresent reports whether a decoded optional expression attribute was
// actually written in the file. gohcl assigns a synthetic expression that
// evaluates to null when the attribute is missing, so a nil check is not
// sufficient.
func exprPresent(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		// References variables, so it must have been written out.
		return true
	}
	return !value.IsNull()
}

// exprDeps returns the node names an expression references, in syntax order
// with duplicates removed.
func exprDeps(expr hcl.Expression) []string {
	var deps []string
	seen := make(map[string]struct{})
	for _, traversal := range expr.Variables() {
		name, ok := parseRefTraversal(traversal)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		deps = append(deps, name)
	}
	return deps
}

// exprEvaluator evaluates an inline HCL expression against the node's input
// snapshot. The same nested object backs both the `seed` and `const` roots:
// the evaluator cannot know the kind of each input, and a reference only
// resolves if the name is among the node's declared dependencies anyway.
type exprEvaluator struct {
	id   string
	expr hcl.Expression
}

// ID implements graph.Evaluator.
func (e *exprEvaluator) ID() string { return e.id }

// Evaluate implements graph.Evaluator.
func (e *exprEvaluator) Evaluate(_ context.Context, inputs map[string]cty.Value) (cty.Value, error) {
	scope := nestedObject(inputs)
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"seed":  scope,
			"const": scope,
		},
	}

	value, diags := e.expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return value, nil
}

// nestedObject folds a flat map of dotted names into a nested cty object, so
// the value of "topology.b3" is reachable as <root>.topology.b3 in an
// expression. A name must not be both a leaf and a prefix of another name.
func nestedObject(values map[string]cty.Value) cty.Value {
	root := make(map[string]any)
	for name, value := range values {
		parts := strings.Split(name, ".")
		current := root
		for i, part := range parts {
			if i == len(parts)-1 {
				current[part] = value
				break
			}
			next, ok := current[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
	}
	return foldObject(root)
}

func foldObject(tree map[string]any) cty.Value {
	if len(tree) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(tree))
	for key, value := range tree {
		switch v := value.(type) {
		case cty.Value:
			attrs[key] = v
		case map[string]any:
			attrs[key] = foldObject(v)
		}
	}
	return cty.ObjectVal(attrs)
}
