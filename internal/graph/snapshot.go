package graph

import "sort"

// Snapshot is an immutable view of a Graph produced by Finalize. It is the
// only form the resolver accepts: resolution never mutates a snapshot, so
// concurrent resolve runs against the same snapshot are safe by construction.
type Snapshot struct {
	// nodes holds deep copies of the graph's nodes, keyed by name.
	nodes map[string]*Node
}

// Len returns the number of nodes in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.nodes)
}

// Names returns the names of all nodes in sorted order.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.nodes))
	for name := range s.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Node returns a copy of the named node. The second return value reports
// whether the node exists.
func (s *Snapshot) Node(name string) (Node, bool) {
	node, ok := s.nodes[name]
	if !ok {
		return Node{}, false
	}
	return *node.clone(), true
}

// SeedNames returns the names of all seed nodes in sorted order.
func (s *Snapshot) SeedNames() []string {
	var names []string
	for name, node := range s.nodes {
		if node.Kind == KindSeed {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// MissingEvaluators returns the names of every derived node with a nil
// evaluator, in sorted order. An empty result means the graph is fully wired.
func (s *Snapshot) MissingEvaluators() []string {
	var names []string
	for name, node := range s.nodes {
		if node.Kind == KindDerived && node.Evaluator == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DanglingInputs returns every input name referenced by some node but absent
// from the snapshot, mapped to the sorted list of nodes referencing it.
func (s *Snapshot) DanglingInputs() map[string][]string {
	dangling := make(map[string][]string)
	for name, node := range s.nodes {
		for _, input := range node.Inputs {
			if _, ok := s.nodes[input]; !ok {
				dangling[input] = append(dangling[input], name)
			}
		}
	}
	for input := range dangling {
		sort.Strings(dangling[input])
	}
	if len(dangling) == 0 {
		return nil
	}
	return dangling
}

// dependents builds the reverse adjacency: for each node, the sorted list of
// nodes that consume it. Inputs pointing outside the snapshot are ignored;
// they are reported separately by DanglingInputs.
func (s *Snapshot) dependents() map[string][]string {
	deps := make(map[string][]string, len(s.nodes))
	for name, node := range s.nodes {
		for _, input := range node.Inputs {
			if _, ok := s.nodes[input]; ok {
				deps[input] = append(deps[input], name)
			}
		}
	}
	for input := range deps {
		sort.Strings(deps[input])
	}
	return deps
}
