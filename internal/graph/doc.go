// Package graph is the structural core of the engine. It owns the set of
// named value nodes and their declared input edges, and answers topological
// questions about them: evaluation order, cycle detection, and structural
// gaps such as derived nodes with no attached evaluator.
//
// The package deliberately performs no evaluation. A Graph is a mutable
// builder populated through AddSeed and AddDerived; Finalize produces an
// immutable Snapshot that the resolver consumes. The split makes the
// resolver's read-only contract a property of the type system rather than
// a convention.
package graph
