package graph

import (
	"sort"

	"github.com/talav/irgen/ir"
)

// FeatureGate is the minimal feature expression of one node: a disjunction
// of resource identifiers such that the node is required iff at least one
// of them is enabled. The zero value is "always present".
type FeatureGate struct {
	resources []string
}

// AlwaysPresent reports whether the node is unconditional.
func (f FeatureGate) AlwaysPresent() bool {
	return len(f.resources) == 0
}

// Resources returns the gate's clauses in sorted order. Empty means the
// node is always present.
func (f FeatureGate) Resources() []string {
	out := make([]string, len(f.resources))
	copy(out, f.resources)

	return out
}

// Has reports whether the gate names the given resource.
func (f FeatureGate) Has(resource string) bool {
	for _, r := range f.resources {
		if r == resource {
			return true
		}
	}

	return false
}

// computeFeatureGates derives each node's feature expression:
//
//  1. Annotated nodes carry their own resource.
//  2. Unannotated nodes take the disjunction of the expressions of nodes
//     that reference them, iterated to a fixed point.
//  3. Clauses implied by other clauses under the declared dependency
//     relation are removed.
//
// A node with no gating evidence at all (no annotation, no annotated user)
// stays unconditionally present.
func (g *Graph) computeFeatureGates() {
	n := len(g.nodes)
	direct := make([]string, n)
	annotatedAny := false
	for i, node := range g.nodes {
		direct[i] = g.directResource(node)
		if direct[i] != "" {
			annotatedAny = true
		}
	}

	g.gates = make([]FeatureGate, n)
	if !annotatedAny {
		return
	}

	sets := make([]map[string]struct{}, n)
	for i := range sets {
		sets[i] = make(map[string]struct{})
		if direct[i] != "" {
			sets[i][direct[i]] = struct{}{}
		}
	}

	for changed := true; changed; {
		changed = false
		for v := range g.nodes {
			if direct[v] != "" {
				continue
			}
			for _, ei := range g.in[v] {
				from := g.edges[ei].From
				for r := range sets[from] {
					if _, ok := sets[v][r]; !ok {
						sets[v][r] = struct{}{}
						changed = true
					}
				}
			}
		}
	}

	closure := g.dependencyClosure()
	for v := range g.nodes {
		g.gates[v] = simplifyGate(sets[v], closure)
	}
}

func (g *Graph) directResource(node Node) string {
	switch node.Kind {
	case NodeSchema:
		if entry, ok := g.spec.Schema(node.Schema); ok {
			return entry.Resource
		}
	case NodeOperation:
		if op, ok := g.spec.Operation(node.Op); ok {
			return op.Resource
		}
	}

	return ""
}

// dependencyClosure computes the transitive closure of the declared
// resource dependency relation: closure[r] holds every resource enabled
// whenever r is.
func (g *Graph) dependencyClosure() map[string]map[string]struct{} {
	closure := make(map[string]map[string]struct{}, len(g.resourceDeps))
	var visit func(r string, acc map[string]struct{})
	visit = func(r string, acc map[string]struct{}) {
		for _, dep := range g.resourceDeps[r] {
			if _, ok := acc[dep]; ok {
				continue
			}
			acc[dep] = struct{}{}
			visit(dep, acc)
		}
	}
	for r := range g.resourceDeps {
		acc := make(map[string]struct{})
		visit(r, acc)
		closure[r] = acc
	}

	return closure
}

// simplifyGate drops clauses implied by other clauses: when enabling r
// always enables r', the clause r is redundant next to r'.
func simplifyGate(set map[string]struct{}, closure map[string]map[string]struct{}) FeatureGate {
	if len(set) == 0 {
		return FeatureGate{}
	}

	resources := make([]string, 0, len(set))
	for r := range set {
		resources = append(resources, r)
	}
	sort.Strings(resources)

	kept := resources[:0:0]
	for _, r := range resources {
		redundant := false
		for other := range set {
			if other == r {
				continue
			}
			if _, ok := closure[r][other]; !ok {
				continue
			}
			// Mutually implying clauses keep the lexicographically
			// first one.
			if _, mutual := closure[other][r]; mutual && r < other {
				continue
			}
			redundant = true

			break
		}
		if !redundant {
			kept = append(kept, r)
		}
	}

	return FeatureGate{resources: kept}
}

// FeatureGate returns the minimal feature expression of a schema.
func (g *Graph) FeatureGate(name ir.TypeName) FeatureGate {
	v, ok := g.node(SchemaNode(name))
	if !ok {
		return FeatureGate{}
	}

	return g.gates[v]
}

// OperationFeatureGate returns the minimal feature expression of an
// operation.
func (g *Graph) OperationFeatureGate(id string) FeatureGate {
	v, ok := g.node(OperationNode(id))
	if !ok {
		return FeatureGate{}
	}

	return g.gates[v]
}
