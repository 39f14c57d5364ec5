package graph

import "github.com/talav/irgen/ir"

// computeSCC runs Tarjan's algorithm over the node set. Nodes are visited
// in insertion order and neighbors in edge insertion order, so component
// identity and ordering are deterministic for a given spec.
func (g *Graph) computeSCC() {
	n := len(g.nodes)
	g.sccID = make([]int, n)
	g.selfLoop = make([]bool, n)
	for i := range g.sccID {
		g.sccID[i] = -1
	}

	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var stack []int
	next := 0

	var strongConnect func(v int)
	strongConnect = func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, ei := range g.out[v] {
			e := g.edges[ei]
			w := e.To
			if w == v {
				g.selfLoop[v] = true
			}
			if index[w] < 0 {
				strongConnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] && index[w] < low[v] {
				low[v] = index[w]
			}
		}

		if low[v] == index[v] {
			id := len(g.sccSizes)
			size := 0
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				g.sccID[w] = id
				size++
				if w == v {
					break
				}
			}
			g.sccSizes = append(g.sccSizes, size)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] < 0 {
			strongConnect(v)
		}
	}
}

// InSameSCC reports whether two schemas are mutually reachable.
func (g *Graph) InSameSCC(a, b ir.TypeName) bool {
	ai, ok := g.node(SchemaNode(a))
	if !ok {
		return false
	}
	bi, ok := g.node(SchemaNode(b))
	if !ok {
		return false
	}

	return g.sccID[ai] == g.sccID[bi]
}
