// Package hclgraph loads dependency-graph definitions from HCL files.
//
// A definition file declares seed constants and derived constants:
//
//	seed "topology.b3" {
//	  description = "third Betti number of the compact space"
//	}
//
//	const "geometry.vol" {
//	  expr = seed.topology.b3 - seed.topology.b2
//	}
//
//	const "pm.alpha_inverse" {
//	  formula = "pm.alpha_inverse"
//	  inputs  = ["geometry.vol", "topology.chi"]
//	}
//
// Derived constants either evaluate an inline HCL expression or delegate to
// a Go formula registered in the registry package. Dependencies are taken
// from the explicit inputs list and discovered implicitly from expression
// variable traversals of the form seed.<dotted.name> or const.<dotted.name>.
package hclgraph
