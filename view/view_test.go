package view

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talav/irgen/config"
	"github.com/talav/irgen/graph"
	"github.com/talav/irgen/internal/build"
	"github.com/talav/irgen/ir"
)

func testGraph(t *testing.T, schemas openapi3.Schemas) *graph.Graph {
	t.Helper()
	doc := &openapi3.T{
		OpenAPI:    "3.0.3",
		Info:       &openapi3.Info{Title: "test", Version: "1.0.0"},
		Components: &openapi3.Components{Schemas: schemas},
	}
	spec := build.NewTransformer(doc, config.Default()).Transform()

	return graph.New(spec)
}

func strSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}}}
}

func refSchema(name string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name}
}

func TestStructView(t *testing.T) {
	g := testGraph(t, openapi3.Schemas{
		"Comment": {Value: &openapi3.Schema{
			Type: &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{
				"text":   strSchema(),
				"parent": refSchema("Comment"),
			},
			Required: []string{"text"},
		}},
	})

	sv, ok := Struct(g, ir.Named("Comment"))
	require.True(t, ok)

	assert.Equal(t, ir.Named("Comment"), sv.Name())
	assert.False(t, sv.IsInline())

	fields := sv.Fields()
	require.Len(t, fields, 2)

	text, ok := sv.Field("text")
	require.True(t, ok)
	assert.True(t, text.Required())
	assert.False(t, text.NeedsIndirection())

	parent, ok := sv.Field("parent")
	require.True(t, ok)
	assert.True(t, parent.NeedsIndirection())
	assert.True(t, sv.NeedsIndirection("parent"))

	assert.Equal(t, []ir.TypeName{ir.Named("Comment")}, sv.Reachable())
	assert.True(t, sv.CanDeriveEquality())
}

func TestStructView_WrongKind(t *testing.T) {
	g := testGraph(t, openapi3.Schemas{
		"Status": {Value: &openapi3.Schema{
			Type: &openapi3.Types{openapi3.TypeString},
			Enum: []any{"on", "off"},
		}},
	})

	_, ok := Struct(g, ir.Named("Status"))
	assert.False(t, ok)

	ev, ok := Enum(g, ir.Named("Status"))
	require.True(t, ok)
	require.Len(t, ev.Values(), 2)
	assert.Equal(t, "on", ev.Values()[0].Value)
}

func TestTaggedView(t *testing.T) {
	g := testGraph(t, openapi3.Schemas{
		"Cat": {Value: &openapi3.Schema{
			Type:       &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{"kind": strSchema()},
			Required:   []string{"kind"},
		}},
		"Dog": {Value: &openapi3.Schema{
			Type:       &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{"kind": strSchema()},
			Required:   []string{"kind"},
		}},
		"Pet": {Value: &openapi3.Schema{
			OneOf: openapi3.SchemaRefs{refSchema("Cat"), refSchema("Dog")},
			Discriminator: &openapi3.Discriminator{
				PropertyName: "kind",
				Mapping: map[string]string{
					"cat": "#/components/schemas/Cat",
					"dog": "#/components/schemas/Dog",
				},
			},
		}},
	})

	tv, ok := Tagged(g, ir.Named("Pet"))
	require.True(t, ok)

	assert.Equal(t, "kind", tv.Discriminator())
	variants := tv.Variants()
	require.Len(t, variants, 2)
	assert.Equal(t, "cat", variants[0].Tag())
	assert.Equal(t, 0, variants[0].Index())
	assert.Equal(t, ir.RefTo(ir.Named("Cat")), variants[0].Type())

	// Pet depends on both variants.
	reach := tv.Reachable()
	assert.Contains(t, reach, ir.Named("Cat"))
	assert.Contains(t, reach, ir.Named("Dog"))

	// Cat is used by Pet.
	cat, ok := Struct(g, ir.Named("Cat"))
	require.True(t, ok)
	assert.Contains(t, cat.UsedBy(), ir.Named("Pet"))
}

func TestUntaggedView(t *testing.T) {
	g := testGraph(t, openapi3.Schemas{
		"Value": {Value: &openapi3.Schema{
			OneOf: openapi3.SchemaRefs{
				strSchema(),
				{Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeInteger}}},
			},
		}},
	})

	uv, ok := Untagged(g, ir.Named("Value"))
	require.True(t, ok)

	variants := uv.Variants()
	require.Len(t, variants, 2)
	assert.Empty(t, variants[0].Tag())
	assert.Equal(t, ir.KindString, variants[0].Type().Kind)
	assert.Equal(t, ir.KindInteger, variants[1].Type().Kind)
}

func TestViewsCoexist(t *testing.T) {
	g := testGraph(t, openapi3.Schemas{
		"User": {Value: &openapi3.Schema{
			Type:       &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{"name": strSchema()},
		}},
	})

	a, ok := Struct(g, ir.Named("User"))
	require.True(t, ok)
	b, ok := Struct(g, ir.Named("User"))
	require.True(t, ok)

	assert.Equal(t, a.Name(), b.Name())
	assert.Equal(t, a.Fields()[0].Name(), b.Fields()[0].Name())
}
