package build

import (
	"errors"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talav/irgen/debug"
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

func TestResolver_NamedSchema(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"User": {Value: &openapi3.Schema{
			Type:       &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{"name": strSchema()},
		}},
	})
	res := NewResolver(doc)

	tgt, err := res.Resolve("#/components/schemas/User")

	require.NoError(t, err)
	assert.Equal(t, "User", tgt.Name)
	assert.Empty(t, tgt.Segments)
	require.NotNil(t, tgt.Schema.Value)
}

func TestResolver_InlineSubnode(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"User": {Value: &openapi3.Schema{
			Type: &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{
				"tags": {Value: &openapi3.Schema{
					Type:  &openapi3.Types{openapi3.TypeArray},
					Items: strSchema(),
				}},
			},
		}},
	})
	res := NewResolver(doc)

	tgt, err := res.Resolve("#/components/schemas/User/properties/tags/items")

	require.NoError(t, err)
	assert.Equal(t, "User", tgt.Name)
	assert.Equal(t, []string{"properties", "tags", "items"}, tgt.Segments)
	assert.True(t, tgt.Schema.Value.Type.Is(openapi3.TypeString))
}

func TestResolver_Errors(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"User": {Value: &openapi3.Schema{
			Type:       &openapi3.Types{openapi3.TypeObject},
			Properties: openapi3.Schemas{"name": strSchema()},
		}},
	})
	res := NewResolver(doc)

	tests := []struct {
		name     string
		ref      string
		wantCode debug.Code
	}{
		{
			name:     "unknown schema",
			ref:      "#/components/schemas/Missing",
			wantCode: debug.DiagUnknownPointer,
		},
		{
			name:     "unknown property",
			ref:      "#/components/schemas/User/properties/missing",
			wantCode: debug.DiagUnknownPointer,
		},
		{
			name:     "outside components",
			ref:      "#/paths/~1users/get",
			wantCode: debug.DiagUnknownPointer,
		},
		{
			name:     "external url",
			ref:      "https://example.com/spec.yaml#/components/schemas/User",
			wantCode: debug.DiagMalformedPointer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := res.Resolve(tt.ref)

			require.Error(t, err)
			var re *ResolveError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.wantCode, re.Code)
		})
	}
}

func TestResolver_EscapedTokens(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"a/b": {Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}}},
	})
	res := NewResolver(doc)

	tgt, err := res.Resolve("#/components/schemas/a~1b")

	require.NoError(t, err)
	assert.Equal(t, "a/b", tgt.Name)
}

func TestResolver_RefChainCollapses(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"A": {Ref: "#/components/schemas/B"},
		"B": {Ref: "#/components/schemas/C"},
		"C": {Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}}},
	})
	res := NewResolver(doc)

	tgt, err := res.Resolve("#/components/schemas/A")

	require.NoError(t, err)
	assert.Equal(t, "C", tgt.Name)
	assert.True(t, tgt.Schema.Value.Type.Is(openapi3.TypeString))
}

func TestResolver_CyclicRefChain(t *testing.T) {
	doc := testDoc(openapi3.Schemas{
		"A": {Ref: "#/components/schemas/B"},
		"B": {Ref: "#/components/schemas/A"},
	})
	res := NewResolver(doc)

	_, err := res.Resolve("#/components/schemas/A")

	require.Error(t, err)
	var re *ResolveError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, debug.DiagCyclicResolution, re.Code)
}
