// Package resolver evaluates a finalized graph snapshot against a supplied
// seed-value map. A resolve run validates the snapshot's structure first
// (cycles, unwired evaluators, dangling input references, uncovered seeds),
// then walks the deterministic topological order, computing each derived
// node exactly once and recording per-node provenance.
//
// All run state lives in the resolver's per-call result structures; the
// snapshot is never written to. Repeated or concurrent Resolve calls against
// the same snapshot with different seed maps are therefore independent:
// nothing from one run can leak into another.
package resolver
