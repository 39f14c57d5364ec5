package graph

import "github.com/talav/irgen/ir"

// computeIndirection decides which edges need cycle-breaking indirection.
//
// Container edges (through arrays or maps) provide indirection on their own
// and are treated as already broken. The remaining direct edges inside each
// strongly connected component form the candidate set; edges are admitted
// in insertion order as long as they keep the admitted subgraph acyclic,
// and every edge that would close a cycle is marked as needing indirection.
// Insertion order follows field declaration order, so the choice is
// deterministic.
func (g *Graph) computeIndirection() {
	g.needsIndirection = make([]bool, len(g.edges))

	kept := make([][]int, len(g.nodes)) // admitted direct edges per node

	for ei, e := range g.edges {
		if e.ViaContainer {
			continue
		}
		if g.sccID[e.From] != g.sccID[e.To] {
			continue
		}
		if e.From == e.To {
			g.needsIndirection[ei] = true

			continue
		}
		if g.closesLoop(kept, e.To, e.From) {
			g.needsIndirection[ei] = true

			continue
		}
		kept[e.From] = append(kept[e.From], e.To)
	}
}

// closesLoop reports whether goal is reachable from start over the admitted
// subgraph. Admitting an edge whose target already reaches its source would
// close a cycle.
func (g *Graph) closesLoop(kept [][]int, start, goal int) bool {
	if start == goal {
		return true
	}
	seen := make(map[int]struct{})
	stack := []int{start}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v == goal {
			return true
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		stack = append(stack, kept[v]...)
	}

	return false
}

// NeedsIndirection reports whether the named struct field requires
// heap indirection to break a reference cycle.
func (g *Graph) NeedsIndirection(owner ir.TypeName, field string) bool {
	from, ok := g.node(SchemaNode(owner))
	if !ok {
		return false
	}
	for _, ei := range g.out[from] {
		e := g.edges[ei]
		if e.Kind == EdgeField && e.Field == field && g.needsIndirection[ei] {
			return true
		}
	}

	return false
}

// VariantNeedsIndirection reports whether a union variant requires
// indirection.
func (g *Graph) VariantNeedsIndirection(owner ir.TypeName, pos int) bool {
	from, ok := g.node(SchemaNode(owner))
	if !ok {
		return false
	}
	for _, ei := range g.out[from] {
		e := g.edges[ei]
		if e.Kind == EdgeVariant && e.Pos == pos && g.needsIndirection[ei] {
			return true
		}
	}

	return false
}
