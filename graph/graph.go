// Package graph builds the type graph over a transformed spec: a directed
// multigraph whose nodes are schema identifiers and operations, and whose
// edges record how one type refers to another. It computes strongly
// connected components, chooses where cycle-breaking indirection goes, and
// answers transitive queries (reachability, users, derivability, feature
// gates).
//
// A Graph borrows its Spec for its whole lifetime and never mutates it.
// All queries are safe for concurrent use once the graph is built.
package graph

import (
	"github.com/talav/irgen/ir"
)

// NodeKind discriminates graph nodes.
type NodeKind int

const (
	// NodeSchema is a schema identifier node.
	NodeSchema NodeKind = iota

	// NodeOperation is the distinguished node of one operation.
	NodeOperation
)

// Node identifies one graph node: a schema or an operation.
type Node struct {
	Kind   NodeKind
	Schema ir.TypeName
	Op     string
}

// SchemaNode creates a schema node handle.
func SchemaNode(name ir.TypeName) Node {
	return Node{Kind: NodeSchema, Schema: name}
}

// OperationNode creates an operation node handle.
func OperationNode(id string) Node {
	return Node{Kind: NodeOperation, Op: id}
}

// EdgeKind discriminates how the source refers to the target.
type EdgeKind int

const (
	// EdgeField records a struct field referring to a schema. Carries the
	// field name and position.
	EdgeField EdgeKind = iota

	// EdgeElement records a container alias referring to its element type.
	EdgeElement

	// EdgeVariant records a union referring to a variant schema. Carries
	// the tag or position.
	EdgeVariant

	// EdgeUses records an operation using a schema through a parameter,
	// request body, or response.
	EdgeUses
)

// Edge is one reference between nodes. Multiple edges between the same pair
// are permitted and meaningful: different fields of the same struct may
// refer to the same target with different indirection decisions.
type Edge struct {
	From, To int
	Kind     EdgeKind

	// Field is the referring field name for EdgeField edges.
	Field string

	// Pos is the field position or variant index at the source.
	Pos int

	// Tag is the variant tag for EdgeVariant edges on tagged unions.
	Tag string

	// ViaContainer marks a reference that passes through an array or map
	// inside the referring type. Containers provide indirection on their
	// own, so such edges never need extra indirection.
	ViaContainer bool
}

// Graph is the type graph over one spec. Build it once with New; all
// query methods are read-only.
type Graph struct {
	spec *ir.Spec

	nodes []Node
	index map[Node]int
	edges []Edge
	out   [][]int // node -> outgoing edge indices, insertion order
	in    [][]int // node -> incoming edge indices, insertion order

	sccID    []int   // node -> component id
	sccSizes []int   // component id -> member count
	selfLoop []bool  // node -> has an edge to itself

	needsIndirection []bool // edge -> indirection decision

	resourceDeps map[string][]string

	reachScc []map[int]struct{} // forward closure per component
	usedScc  []map[int]struct{} // reverse closure per component

	eq  []bool
	def []bool

	gates []FeatureGate
}

// Option configures graph construction.
type Option func(*Graph)

// WithResourceDeps declares the feature dependency relation used to
// simplify feature-gate expressions: enabling a resource also enables every
// resource it maps to.
func WithResourceDeps(deps map[string][]string) Option {
	return func(g *Graph) {
		g.resourceDeps = deps
	}
}

// New constructs the graph from a spec in one pass and runs the cycle and
// indirection analysis. The spec must not change afterwards.
func New(spec *ir.Spec, opts ...Option) *Graph {
	g := &Graph{
		spec:  spec,
		index: make(map[Node]int),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.addNodes()
	g.addEdges()
	g.computeSCC()
	g.computeClosures()
	g.computeIndirection()
	g.computeDerivable()
	g.computeFeatureGates()

	return g
}

// Spec returns the underlying spec.
func (g *Graph) Spec() *ir.Spec {
	return g.spec
}

// Edges returns a copy of all edges. Intended for inspection and tests.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// node resolves a node handle to its internal index.
func (g *Graph) node(n Node) (int, bool) {
	i, ok := g.index[n]

	return i, ok
}

// NodeOf returns the node descriptor at an edge endpoint.
func (g *Graph) NodeOf(i int) Node {
	return g.nodes[i]
}

func (g *Graph) addNodes() {
	for _, name := range g.spec.Schemas() {
		n := SchemaNode(name)
		g.index[n] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}
	for i := range g.spec.Operations {
		n := OperationNode(g.spec.Operations[i].ID)
		if _, ok := g.index[n]; ok {
			continue
		}
		g.index[n] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}
	g.out = make([][]int, len(g.nodes))
	g.in = make([][]int, len(g.nodes))
}

func (g *Graph) addEdges() {
	for _, name := range g.spec.Schemas() {
		entry, _ := g.spec.Schema(name)
		if entry == nil {
			continue
		}
		from, ok := g.node(SchemaNode(name))
		if !ok {
			continue
		}
		g.addEntryEdges(from, entry)
	}

	for i := range g.spec.Operations {
		op := &g.spec.Operations[i]
		from, ok := g.node(OperationNode(op.ID))
		if !ok {
			continue
		}
		g.addOperationEdges(from, op)
	}
}

func (g *Graph) addEntryEdges(from int, entry *ir.SchemaEntry) {
	switch entry.Kind {
	case ir.SchemaStruct:
		if entry.Struct == nil {
			return
		}
		for pos, f := range entry.Struct.Fields {
			g.addTypeEdges(from, f.Type, Edge{Kind: EdgeField, Field: f.Name, Pos: pos}, false)
		}
	case ir.SchemaTagged:
		if entry.Tagged == nil {
			return
		}
		for pos, v := range entry.Tagged.Variants {
			g.addTypeEdges(from, v.Type, Edge{Kind: EdgeVariant, Tag: v.Tag, Pos: pos}, false)
		}
	case ir.SchemaUntagged:
		if entry.Untagged == nil {
			return
		}
		for pos, v := range entry.Untagged.Variants {
			g.addTypeEdges(from, v.Type, Edge{Kind: EdgeVariant, Pos: pos}, false)
		}
	case ir.SchemaAlias:
		if entry.Alias == nil {
			return
		}
		g.addTypeEdges(from, *entry.Alias, Edge{Kind: EdgeElement}, false)
	case ir.SchemaEnum:
	}
}

func (g *Graph) addOperationEdges(from int, op *ir.Operation) {
	for i := range op.Parameters {
		g.addTypeEdges(from, op.Parameters[i].Type, Edge{Kind: EdgeUses}, false)
	}
	if op.RequestBody != nil {
		g.addTypeEdges(from, op.RequestBody.Type, Edge{Kind: EdgeUses}, false)
	}
	for i := range op.Responses {
		if op.Responses[i].Type != nil {
			g.addTypeEdges(from, *op.Responses[i].Type, Edge{Kind: EdgeUses}, false)
		}
	}
}

// addTypeEdges walks a type and emits one edge per reference it contains.
// viaContainer becomes true once the walk passes through an array or map.
func (g *Graph) addTypeEdges(from int, t ir.Type, proto Edge, viaContainer bool) {
	switch t.Kind {
	case ir.KindRef:
		to, ok := g.node(SchemaNode(t.Ref))
		if !ok {
			return
		}
		e := proto
		e.From = from
		e.To = to
		e.ViaContainer = viaContainer
		g.addEdge(e)
	case ir.KindNullable:
		if t.Elem != nil {
			g.addTypeEdges(from, *t.Elem, proto, viaContainer)
		}
	case ir.KindArray, ir.KindMap:
		if t.Elem != nil {
			g.addTypeEdges(from, *t.Elem, proto, true)
		}
	default:
	}
}

func (g *Graph) addEdge(e Edge) {
	i := len(g.edges)
	g.edges = append(g.edges, e)
	g.out[e.From] = append(g.out[e.From], i)
	g.in[e.To] = append(g.in[e.To], i)
}
