package dag

import "slices"

// TopoOrder returns every node ID such that each node comes after all of its
// dependencies. It uses Kahn's algorithm; whenever several nodes are ready at
// once, the one added to the graph first is emitted first, so the order is
// stable across runs.
//
// If the graph contains a cycle, TopoOrder returns a *CycleError listing, in
// insertion order, every node that could not be placed.
func (g *Graph) TopoOrder() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	inDegree := make(map[string]int, len(g.nodes))
	var ready []*node
	for _, id := range g.order {
		n := g.nodes[id]
		inDegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, n)
		}
	}

	byIndex := func(a, b *node) int { return a.index - b.index }
	order := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next.id)

		for _, dependent := range next.dependents {
			inDegree[dependent.id]--
			if inDegree[dependent.id] == 0 {
				pos, _ := slices.BinarySearchFunc(ready, dependent, byIndex)
				ready = slices.Insert(ready, pos, dependent)
			}
		}
	}

	if len(order) < len(g.order) {
		var stuck []string
		for _, id := range g.order {
			if inDegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, &CycleError{Nodes: stuck}
	}
	return order, nil
}
