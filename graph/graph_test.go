package graph

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talav/irgen/config"
	"github.com/talav/irgen/internal/build"
	"github.com/talav/irgen/ir"
)

func testDoc(schemas openapi3.Schemas) *openapi3.T {
	return &openapi3.T{
		OpenAPI:    "3.0.3",
		Info:       &openapi3.Info{Title: "test", Version: "1.0.0"},
		Components: &openapi3.Components{Schemas: schemas},
	}
}

func strSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}}}
}

func refSchema(name string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name}
}

func objectSchema(props openapi3.Schemas, required ...string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: props,
		Required:   required,
	}}
}

func buildGraph(t *testing.T, doc *openapi3.T, opts ...Option) *Graph {
	t.Helper()
	spec := build.NewTransformer(doc, config.Default()).Transform()

	return New(spec, opts...)
}

// The comment-cycle scenario: a self-referential schema needs indirection
// on its direct self-edge but not on the edge through an array.
func TestGraph_CommentCycle(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"Comment": objectSchema(openapi3.Schemas{
			"text":   strSchema(),
			"parent": refSchema("Comment"),
			"children": {Value: &openapi3.Schema{
				Type:  &openapi3.Types{openapi3.TypeArray},
				Items: refSchema("Comment"),
			}},
		}, "text"),
	})

	g := buildGraph(t, doc)
	comment := ir.Named("Comment")

	assert.True(t, g.NeedsIndirection(comment, "parent"))
	assert.False(t, g.NeedsIndirection(comment, "children"))
	assert.Equal(t, []ir.TypeName{comment}, g.Reachable(comment))
}

// Cycle indirection selection: A -> B -> A through required scalar fields
// marks exactly one of the two edges, chosen deterministically.
func TestGraph_TwoNodeCycleIndirection(t *testing.T) {
	mkDoc := func() *openapi3.T {
		return testDoc(openapi3.Schemas{
			"A": objectSchema(openapi3.Schemas{"b": refSchema("B")}, "b"),
			"B": objectSchema(openapi3.Schemas{"a": refSchema("A")}, "a"),
		})
	}

	g := buildGraph(t, mkDoc())

	aNeeds := g.NeedsIndirection(ir.Named("A"), "b")
	bNeeds := g.NeedsIndirection(ir.Named("B"), "a")
	assert.True(t, aNeeds != bNeeds, "exactly one edge must need indirection")

	// The choice is deterministic across rebuilds.
	g2 := buildGraph(t, mkDoc())
	assert.Equal(t, aNeeds, g2.NeedsIndirection(ir.Named("A"), "b"))
	assert.Equal(t, bNeeds, g2.NeedsIndirection(ir.Named("B"), "a"))
}

func TestGraph_CycleThroughContainerNeedsNoIndirection(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"A": objectSchema(openapi3.Schemas{"b": refSchema("B")}, "b"),
		"B": objectSchema(openapi3.Schemas{
			"as": {Value: &openapi3.Schema{
				Type:  &openapi3.Types{openapi3.TypeArray},
				Items: refSchema("A"),
			}},
		}),
	})

	g := buildGraph(t, doc)

	assert.False(t, g.NeedsIndirection(ir.Named("A"), "b"))
	assert.False(t, g.NeedsIndirection(ir.Named("B"), "as"))
	assert.True(t, g.InSameSCC(ir.Named("A"), ir.Named("B")))
}

func TestGraph_IndirectionImpliesSameSCC(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"A": objectSchema(openapi3.Schemas{"b": refSchema("B"), "self": refSchema("A")}),
		"B": objectSchema(openapi3.Schemas{"a": refSchema("A")}),
		"C": objectSchema(openapi3.Schemas{"a": refSchema("A")}),
	})

	g := buildGraph(t, doc)

	for _, e := range g.Edges() {
		if e.Kind != EdgeField {
			continue
		}
		from := g.NodeOf(e.From)
		to := g.NodeOf(e.To)
		if g.NeedsIndirection(from.Schema, e.Field) {
			assert.True(t, g.InSameSCC(from.Schema, to.Schema),
				"indirection on %s.%s implies a shared SCC", from.Schema, e.Field)
		}
	}

	// C references A but sits outside the cycle.
	assert.False(t, g.NeedsIndirection(ir.Named("C"), "a"))
}

func TestGraph_ReachableIsClosed(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"A": objectSchema(openapi3.Schemas{"b": refSchema("B")}),
		"B": objectSchema(openapi3.Schemas{"c": refSchema("C")}),
		"C": objectSchema(openapi3.Schemas{"x": strSchema()}),
	})

	g := buildGraph(t, doc)

	reach := g.Reachable(ir.Named("A"))
	assert.Equal(t, []ir.TypeName{ir.Named("B"), ir.Named("C")}, reach)

	for _, mid := range reach {
		for _, inner := range g.Reachable(mid) {
			assert.Contains(t, reach, inner, "reachable must be transitively closed")
		}
	}
}

func TestGraph_UsedByMatchesReachable(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"A": objectSchema(openapi3.Schemas{"b": refSchema("B")}),
		"B": objectSchema(openapi3.Schemas{"x": strSchema()}),
		"C": objectSchema(openapi3.Schemas{"b": refSchema("B")}),
	})

	g := buildGraph(t, doc)
	spec := g.Spec()

	// used_by(x) == {y : x in reachable(y)} over all schemas.
	for _, x := range spec.Schemas() {
		users := g.UsedBy(x)
		for _, y := range spec.Schemas() {
			reachesX := false
			for _, r := range g.Reachable(y) {
				if r == x {
					reachesX = true
				}
			}
			assert.Equal(t, reachesX, containsName(users, y),
				"used_by(%s) disagrees with reachable(%s)", x, y)
		}
	}
}

func containsName(names []ir.TypeName, want ir.TypeName) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}

	return false
}

func TestGraph_Inlines(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"User": objectSchema(openapi3.Schemas{
			"address": objectSchema(openapi3.Schemas{"city": strSchema()}),
			"other":   refSchema("Other"),
		}),
		"Other": objectSchema(openapi3.Schemas{
			"meta": objectSchema(openapi3.Schemas{"k": strSchema()}),
		}),
	})

	g := buildGraph(t, doc)

	inlines := g.Inlines(ir.Named("User"))
	require.Len(t, inlines, 1)
	assert.Equal(t, "User/field(address)", inlines[0].Key())

	// Other's inline is reachable from User but belongs to Other.
	reach := g.Reachable(ir.Named("User"))
	assert.Contains(t, reach, ir.InlineName(ir.NewPath("Other", ir.FieldSegment("meta"))))
}

func TestGraph_StructurallyEqualAcrossBuilds(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"A": objectSchema(openapi3.Schemas{"b": refSchema("B")}),
		"B": objectSchema(openapi3.Schemas{"a": refSchema("A")}),
	})
	spec := build.NewTransformer(doc, config.Default()).Transform()

	g1 := New(spec)
	g2 := New(spec)

	assert.Equal(t, g1.Edges(), g2.Edges())
}

func TestGraph_DeriveEquality(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"Exact": objectSchema(openapi3.Schemas{
			"n": {Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeInteger}}},
			"s": strSchema(),
		}),
		"Fuzzy": objectSchema(openapi3.Schemas{
			"ratio": {Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}}},
		}),
		"FloatMap": objectSchema(openapi3.Schemas{
			"scores": {Value: &openapi3.Schema{
				Type: &openapi3.Types{openapi3.TypeObject},
				AdditionalProperties: openapi3.AdditionalProperties{
					Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}}},
				},
			}},
		}),
		"Wrapper": objectSchema(openapi3.Schemas{"f": refSchema("Fuzzy")}),
	})

	g := buildGraph(t, doc)

	assert.True(t, g.CanDeriveEquality(ir.Named("Exact")))
	assert.False(t, g.CanDeriveEquality(ir.Named("Fuzzy")))
	assert.False(t, g.CanDeriveEquality(ir.Named("FloatMap")))
	// Float contamination propagates through references.
	assert.False(t, g.CanDeriveEquality(ir.Named("Wrapper")))
}

func TestGraph_DeriveEqualityOptimisticCycle(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"Node": objectSchema(openapi3.Schemas{
			"label": strSchema(),
			"next":  refSchema("Node"),
		}),
	})

	g := buildGraph(t, doc)

	// A pure cycle with no offending member keeps the property.
	assert.True(t, g.CanDeriveEquality(ir.Named("Node")))
}

func TestGraph_DeriveDefault(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"AllOptional": objectSchema(openapi3.Schemas{
			"a": strSchema(),
			"b": strSchema(),
		}),
		"NeedsEnum": objectSchema(openapi3.Schemas{
			"status": refSchema("Status"),
		}, "status"),
		"Status": {Value: &openapi3.Schema{
			Type: &openapi3.Types{openapi3.TypeString},
			Enum: []any{"on", "off"},
		}},
		"RequiredScalar": objectSchema(openapi3.Schemas{
			"name": strSchema(),
		}, "name"),
	})

	g := buildGraph(t, doc)

	assert.True(t, g.CanDeriveDefault(ir.Named("AllOptional")))
	assert.True(t, g.CanDeriveDefault(ir.Named("RequiredScalar")))
	// A required field referencing an enum has no natural default.
	assert.False(t, g.CanDeriveDefault(ir.Named("NeedsEnum")))
}

func TestGraph_FeatureGates(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"Customer": {Value: &openapi3.Schema{
			Type: &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{
				"billing": refSchema("BillingInfo"),
			},
			Extensions: map[string]any{"x-resourceId": "customer"},
		}},
		"BillingInfo": objectSchema(openapi3.Schemas{"iban": strSchema()}),
	})

	g := buildGraph(t, doc)

	customer := g.FeatureGate(ir.Named("Customer"))
	assert.Equal(t, []string{"customer"}, customer.Resources())

	// BillingInfo carries no annotation but is referenced only by Customer.
	billing := g.FeatureGate(ir.Named("BillingInfo"))
	assert.Equal(t, []string{"customer"}, billing.Resources())
}

func TestGraph_FeatureGateDisjunctionAndSimplify(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"Customer": {Value: &openapi3.Schema{
			Type:       &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{"shared": refSchema("Shared")},
			Extensions: map[string]any{"x-resourceId": "customer"},
		}},
		"Invoice": {Value: &openapi3.Schema{
			Type:       &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{"shared": refSchema("Shared")},
			Extensions: map[string]any{"x-resourceId": "invoice"},
		}},
		"Shared": objectSchema(openapi3.Schemas{"id": strSchema()}),
	})

	plain := buildGraph(t, doc)
	shared := plain.FeatureGate(ir.Named("Shared"))
	assert.Equal(t, []string{"customer", "invoice"}, shared.Resources())

	// Declaring invoice => customer collapses the disjunction.
	simplified := buildGraph(t, doc, WithResourceDeps(map[string][]string{
		"invoice": {"customer"},
	}))
	shared = simplified.FeatureGate(ir.Named("Shared"))
	assert.Equal(t, []string{"customer"}, shared.Resources())
}

func TestGraph_UnannotatedDocumentIsAlwaysPresent(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"User": objectSchema(openapi3.Schemas{"name": strSchema()}),
	})

	g := buildGraph(t, doc)

	assert.True(t, g.FeatureGate(ir.Named("User")).AlwaysPresent())
}
