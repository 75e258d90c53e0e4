package validate

import "github.com/metro-di/metro/internal/graph"

// adjacency is the directed graph GV analyzes: From -> To edges plus,
// per edge, whether it was requested through a deferrable wrapper
// (spec.md §4.4.1 step 2).
type adjacency struct {
	n     int
	edges [][]graph.Edge // outgoing edges per BindingIndex
}

func buildAdjacency(g *graph.BindingGraph) *adjacency {
	a := &adjacency{n: len(g.Bindings), edges: make([][]graph.Edge, len(g.Bindings))}
	for _, e := range g.Edges {
		a.edges[e.From] = append(a.edges[e.From], e)
	}
	return a
}

// findStronglyConnectedComponents runs Tarjan's algorithm over the
// adjacency, returning components in topological order (a component
// depending on another appears after it), exactly as the teacher's
// dep_graph.FindStronglyConnectedComponents does, adapted from DeclID
// to graph.BindingIndex.
func (a *adjacency) findStronglyConnectedComponents() [][]graph.BindingIndex {
	index := 0
	var stack []graph.BindingIndex
	indices := make(map[graph.BindingIndex]int)
	lowlinks := make(map[graph.BindingIndex]int)
	onStack := make(map[graph.BindingIndex]bool)
	var sccs [][]graph.BindingIndex

	var strongConnect func(graph.BindingIndex)
	strongConnect = func(v graph.BindingIndex) {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range a.edges[v] {
			w := e.To
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				if lowlinks[w] < lowlinks[v] {
					lowlinks[v] = lowlinks[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlinks[v] {
					lowlinks[v] = indices[w]
				}
			}
		}

		if lowlinks[v] == indices[v] {
			var scc []graph.BindingIndex
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for i := 0; i < a.n; i++ {
		v := graph.BindingIndex(i)
		if _, visited := indices[v]; !visited {
			strongConnect(v)
		}
	}
	return sccs
}

// selfEdge reports whether v has an edge to itself, and whether
// that edge is deferrable.
func (a *adjacency) selfEdge(v graph.BindingIndex) (exists, deferrable bool) {
	for _, e := range a.edges[v] {
		if e.To == v {
			if e.Deferrable {
				return true, true
			}
			exists = true
		}
	}
	return exists, false
}

// anyDeferrableWithin reports whether any edge whose endpoints are
// both inside members is deferrable — the condition spec.md §4.4.1
// step 4 uses to decide whether a size>1 SCC is a legal cycle.
func (a *adjacency) anyDeferrableWithin(members map[graph.BindingIndex]bool) bool {
	for v := range members {
		for _, e := range a.edges[v] {
			if members[e.To] && e.Deferrable {
				return true
			}
		}
	}
	return false
}
