package hclgraph

import "github.com/hashicorp/hcl/v2"

// Seed represents a `seed` block: an externally supplied constant.
type Seed struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
}

// Const represents a `const` block: a derived constant produced either by an
// inline HCL expression or by a registered Go formula. Expr and Formula are
// mutually exclusive; a block with neither is registered unwired and reported
// by the resolver's batched missing-evaluator check.
type Const struct {
	Name        string         `hcl:"name,label"`
	Expr        hcl.Expression `hcl:"expr,optional"`
	Formula     string         `hcl:"formula,optional"`
	Inputs      []string       `hcl:"inputs,optional"`
	Description string         `hcl:"description,optional"`
}

// File represents the top-level structure of one definition file.
type File struct {
	Seeds  []*Seed  `hcl:"seed,block"`
	Consts []*Const `hcl:"const,block"`
	Body   hcl.Body `hcl:",remain"`
}
