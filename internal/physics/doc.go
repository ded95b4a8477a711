// Package physics is the built-in "pm" model: a compiled-in dependency graph
// of derived physics-flavored constants over a handful of seed topological
// integers. It is a collaborator of the engine, not part of it: the package
// only registers formulas, populates a graph, and supplies default seeds.
//
// The arithmetic here is deliberately opaque to the engine: each formula is
// just a registered compute function over named inputs. Nothing in the
// resolver depends on what the numbers mean.
package physics
