package graph

import "github.com/talav/irgen/ir"

// computeClosures derives forward and reverse transitive closures per
// strongly connected component. Tarjan emits components in reverse
// topological order, so forward closures are complete after one ascending
// pass and reverse closures after one descending pass. Every member of a
// component shares its closure; members of a cyclic component reach
// themselves.
func (g *Graph) computeClosures() {
	nscc := len(g.sccSizes)
	members := make([][]int, nscc)
	for v, id := range g.sccID {
		members[id] = append(members[id], v)
	}
	cyclic := make([]bool, nscc)
	for id, ms := range members {
		if len(ms) > 1 {
			cyclic[id] = true

			continue
		}
		for _, v := range ms {
			if g.selfLoop[v] {
				cyclic[id] = true
			}
		}
	}

	g.reachScc = make([]map[int]struct{}, nscc)
	for id := 0; id < nscc; id++ {
		set := make(map[int]struct{})
		if cyclic[id] {
			for _, v := range members[id] {
				set[v] = struct{}{}
			}
		}
		for _, v := range members[id] {
			for _, ei := range g.out[v] {
				w := g.edges[ei].To
				if g.sccID[w] == id {
					continue
				}
				set[w] = struct{}{}
				for x := range g.reachScc[g.sccID[w]] {
					set[x] = struct{}{}
				}
			}
		}
		g.reachScc[id] = set
	}

	g.usedScc = make([]map[int]struct{}, nscc)
	for id := nscc - 1; id >= 0; id-- {
		set := make(map[int]struct{})
		if cyclic[id] {
			for _, v := range members[id] {
				set[v] = struct{}{}
			}
		}
		for _, v := range members[id] {
			for _, ei := range g.in[v] {
				w := g.edges[ei].From
				if g.sccID[w] == id {
					continue
				}
				set[w] = struct{}{}
				for x := range g.usedScc[g.sccID[w]] {
					set[x] = struct{}{}
				}
			}
		}
		g.usedScc[id] = set
	}
}

func (g *Graph) reachableSet(v int) map[int]struct{} {
	return g.reachScc[g.sccID[v]]
}

func (g *Graph) usedBySet(v int) map[int]struct{} {
	return g.usedScc[g.sccID[v]]
}

// Reachable returns every schema identifier reachable from the named schema
// via any edge, in spec insertion order. A schema on a cycle through itself
// is included in its own reachable set.
func (g *Graph) Reachable(name ir.TypeName) []ir.TypeName {
	v, ok := g.node(SchemaNode(name))
	if !ok {
		return nil
	}

	return g.schemaNamesOf(g.reachableSet(v))
}

// UsedBy returns every schema identifier whose reachable set contains the
// named schema, in spec insertion order.
func (g *Graph) UsedBy(name ir.TypeName) []ir.TypeName {
	v, ok := g.node(SchemaNode(name))
	if !ok {
		return nil
	}

	return g.schemaNamesOf(g.usedBySet(v))
}

// UsedByOperations returns the identifiers of operations whose reachable
// set contains the named schema, in spec order.
func (g *Graph) UsedByOperations(name ir.TypeName) []string {
	v, ok := g.node(SchemaNode(name))
	if !ok {
		return nil
	}
	set := g.usedBySet(v)

	var out []string
	for i := range g.spec.Operations {
		oi, ok := g.node(OperationNode(g.spec.Operations[i].ID))
		if !ok {
			continue
		}
		if _, hit := set[oi]; hit {
			out = append(out, g.spec.Operations[i].ID)
		}
	}

	return out
}

// Inlines returns the inline schemas reachable from the named schema whose
// inline path is rooted at it, in spec insertion order. These are the
// anonymous types that belong to the named schema.
func (g *Graph) Inlines(name ir.TypeName) []ir.TypeName {
	v, ok := g.node(SchemaNode(name))
	if !ok {
		return nil
	}

	return g.inlinesRootedAt(g.reachableSet(v), ir.RootSchema, name.Key())
}

// OperationReachable returns every schema reachable from the operation, in
// spec insertion order.
func (g *Graph) OperationReachable(id string) []ir.TypeName {
	v, ok := g.node(OperationNode(id))
	if !ok {
		return nil
	}

	return g.schemaNamesOf(g.reachableSet(v))
}

// OperationInlines returns the inline schemas rooted at the operation, in
// spec insertion order.
func (g *Graph) OperationInlines(id string) []ir.TypeName {
	v, ok := g.node(OperationNode(id))
	if !ok {
		return nil
	}

	return g.inlinesRootedAt(g.reachableSet(v), ir.RootOperation, id)
}

func (g *Graph) inlinesRootedAt(set map[int]struct{}, kind ir.RootKind, root string) []ir.TypeName {
	var out []ir.TypeName
	for _, candidate := range g.schemaNamesOf(set) {
		if !candidate.IsInline() {
			continue
		}
		entry, ok := g.spec.Schema(candidate)
		if !ok || entry.Path == nil {
			continue
		}
		if entry.Path.RootKind == kind && entry.Path.Root == root {
			out = append(out, candidate)
		}
	}

	return out
}

// schemaNamesOf filters a node set down to schema identifiers ordered by
// spec insertion order.
func (g *Graph) schemaNamesOf(set map[int]struct{}) []ir.TypeName {
	var out []ir.TypeName
	for _, name := range g.spec.Schemas() {
		v, ok := g.node(SchemaNode(name))
		if !ok {
			continue
		}
		if _, hit := set[v]; hit {
			out = append(out, name)
		}
	}

	return out
}
