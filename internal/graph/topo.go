package graph

import "sort"

// TopologicalOrder returns a linear ordering of all node names in which every
// node appears after all nodes it depends on. Among nodes whose dependencies
// are all satisfied, the alphabetically smallest name is emitted first, so
// repeated calls on an unchanged snapshot return byte-identical orderings.
//
// Kahn's algorithm is used for its natural support of deterministic
// tie-breaking. If the frontier empties with nodes still unprocessed the
// graph is cyclic and a *CycleError carrying the offending loop is returned.
func (s *Snapshot) TopologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(s.nodes))
	for name, node := range s.nodes {
		count := 0
		for _, input := range node.Inputs {
			if _, ok := s.nodes[input]; ok {
				count++
			}
		}
		indegree[name] = count
	}
	dependents := s.dependents()

	var ready []string
	for name, count := range indegree {
		if count == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(s.nodes))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		var unlocked []string
		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				unlocked = append(unlocked, dependent)
			}
		}
		if len(unlocked) > 0 {
			ready = append(ready, unlocked...)
			sort.Strings(ready)
		}
	}

	if len(order) != len(s.nodes) {
		remaining := make(map[string]bool, len(s.nodes)-len(order))
		for name, count := range indegree {
			if count > 0 {
				remaining[name] = true
			}
		}
		return nil, &CycleError{Path: s.findCycle(remaining)}
	}

	return order, nil
}

// DetectCycle returns nil when the snapshot is acyclic. Otherwise it returns
// the shortest discoverable cycle as a closed loop of node names in dependency
// order; ties are broken by the lexicographically smallest start node.
func (s *Snapshot) DetectCycle() []string {
	// Run Kahn's elimination to reduce the search to nodes that can
	// actually participate in a cycle.
	if _, err := s.TopologicalOrder(); err != nil {
		if cycleErr, ok := err.(*CycleError); ok {
			return cycleErr.Path
		}
	}
	return nil
}

// findCycle locates the shortest cycle within the given node set, which must
// be the residue left after Kahn's elimination (every node in it lies on or
// leads into a cycle). Starting nodes are tried in sorted order and a
// breadth-first search over dependency edges finds the shortest loop back to
// each start, so the first shortest cycle found wins deterministically.
func (s *Snapshot) findCycle(remaining map[string]bool) []string {
	starts := make([]string, 0, len(remaining))
	for name := range remaining {
		starts = append(starts, name)
	}
	sort.Strings(starts)

	var best []string
	for _, start := range starts {
		cycle := s.shortestLoop(start, remaining)
		if cycle == nil {
			continue
		}
		if best == nil || len(cycle) < len(best) {
			best = cycle
		}
	}
	return best
}

// shortestLoop runs a BFS over dependency edges restricted to the remaining
// set, returning the shortest path start -> ... -> start as a loop without
// the repeated final element, or nil if no such loop exists.
func (s *Snapshot) shortestLoop(start string, remaining map[string]bool) []string {
	type queued struct {
		name string
		path []string
	}

	visited := map[string]bool{start: true}
	queue := []queued{{name: start, path: []string{start}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := s.nodes[current.name]
		inputs := append([]string{}, node.Inputs...)
		sort.Strings(inputs)

		for _, input := range inputs {
			if input == start {
				return current.path
			}
			if !remaining[input] || visited[input] {
				continue
			}
			visited[input] = true
			path := make([]string, len(current.path)+1)
			copy(path, current.path)
			path[len(current.path)] = input
			queue = append(queue, queued{name: input, path: path})
		}
	}
	return nil
}
