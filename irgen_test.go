package irgen

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talav/irgen/debug"
	"github.com/talav/irgen/ir"
	"github.com/talav/irgen/view"
)

const petstore = `
openapi: "3.0.3"
info:
  title: Petstore
  version: "1.0.0"
paths:
  /users/{id}:
    get:
      operationId: getUser
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
            format: int64
      responses:
        "200":
          description: the user
          content:
            application/json:
              schema:
                type: object
                required: [id, email, name]
                properties:
                  id:
                    type: integer
                    format: int64
                  email:
                    type: string
                  name:
                    type: string
components:
  schemas:
    Comment:
      type: object
      required: [text]
      properties:
        text:
          type: string
        parent:
          $ref: "#/components/schemas/Comment"
        children:
          type: array
          items:
            $ref: "#/components/schemas/Comment"
`

func loadDoc(t *testing.T, data string) *openapi3.T {
	t.Helper()
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(data))
	require.NoError(t, err)

	return doc
}

func TestTransform_InlineResponse(t *testing.T) {
	doc := loadDoc(t, petstore)

	result, err := New().Transform(context.Background(), doc)
	require.NoError(t, err)
	spec := result.Spec

	require.Len(t, spec.Operations, 1)
	op := spec.Operations[0]
	assert.Equal(t, "getUser", op.ID)
	assert.Equal(t, "GET", op.Method)

	resp, ok := op.Response(200)
	require.True(t, ok)
	require.NotNil(t, resp.Type)
	require.Equal(t, ir.KindRef, resp.Type.Kind)

	want := ir.InlineName(ir.NewOperationPath("getUser", ir.ResponseSegment(200), ir.BodySegment()))
	assert.Equal(t, want, resp.Type.Ref)

	entry, ok := spec.Schema(want)
	require.True(t, ok)
	require.Equal(t, ir.SchemaStruct, entry.Kind)
	assert.Len(t, entry.Struct.Fields, 3)
	for _, f := range entry.Struct.Fields {
		assert.True(t, f.Required)
	}
}

func TestTransform_OperationView(t *testing.T) {
	doc := loadDoc(t, petstore)

	result, err := New().Transform(context.Background(), doc)
	require.NoError(t, err)
	g := result.Graph()

	ov, ok := view.Operation(g, "getUser")
	require.True(t, ok)

	params := ov.Parameters()
	require.Len(t, params, 1)
	assert.Equal(t, "id", params[0].Name())
	assert.Equal(t, ir.InPath, params[0].In())
	assert.True(t, params[0].Required())

	inlines := ov.Inlines()
	require.Len(t, inlines, 1)
	assert.Equal(t, "op:getUser/response(200)/body", inlines[0].Key())

	responses := ov.Responses()
	require.Len(t, responses, 1)
	assert.Equal(t, 200, responses[0].Status())
}

// Every reference reachable from any spec entry resolves to an identifier
// the spec contains, and every inline path is rooted at a known schema or
// operation.
func TestTransform_ReferenceInvariants(t *testing.T) {
	doc := loadDoc(t, petstore)

	result, err := New().Transform(context.Background(), doc)
	require.NoError(t, err)
	spec := result.Spec

	var checkType func(typ ir.Type)
	checkType = func(typ ir.Type) {
		switch typ.Kind {
		case ir.KindRef:
			_, ok := spec.Schema(typ.Ref)
			assert.True(t, ok, "dangling reference %s", typ.Ref)
		case ir.KindArray, ir.KindMap, ir.KindNullable:
			if typ.Elem != nil {
				checkType(*typ.Elem)
			}
		}
	}

	for _, name := range spec.Schemas() {
		entry, ok := spec.Schema(name)
		require.True(t, ok)
		switch entry.Kind {
		case ir.SchemaStruct:
			for _, f := range entry.Struct.Fields {
				checkType(f.Type)
			}
		case ir.SchemaTagged:
			for _, v := range entry.Tagged.Variants {
				checkType(v.Type)
			}
		case ir.SchemaUntagged:
			for _, v := range entry.Untagged.Variants {
				checkType(v.Type)
			}
		case ir.SchemaAlias:
			checkType(*entry.Alias)
		}

		if entry.Path != nil {
			switch entry.Path.RootKind {
			case ir.RootSchema:
				_, ok := spec.Schema(ir.Named(entry.Path.Root))
				assert.True(t, ok, "inline %s rooted at unknown schema", name)
			case ir.RootOperation:
				_, ok := spec.Operation(entry.Path.Root)
				assert.True(t, ok, "inline %s rooted at unknown operation", name)
			}
		}
	}
}

func TestTransform_Deterministic(t *testing.T) {
	first, err := New().Transform(context.Background(), loadDoc(t, petstore))
	require.NoError(t, err)
	second, err := New().Transform(context.Background(), loadDoc(t, petstore))
	require.NoError(t, err)

	require.Equal(t, first.Spec.Schemas(), second.Spec.Schemas())
	for _, name := range first.Spec.Schemas() {
		e1, _ := first.Spec.Schema(name)
		e2, _ := second.Spec.Schema(name)
		assert.Equal(t, e1, e2)
	}
	assert.Equal(t, first.Spec.Operations, second.Spec.Operations)
}

func TestTransform_CommentCycleEndToEnd(t *testing.T) {
	doc := loadDoc(t, petstore)

	result, err := New().Transform(context.Background(), doc)
	require.NoError(t, err)
	g := result.Graph()

	sv, ok := view.Struct(g, ir.Named("Comment"))
	require.True(t, ok)
	assert.True(t, sv.NeedsIndirection("parent"))
	assert.False(t, sv.NeedsIndirection("children"))
	assert.Equal(t, []ir.TypeName{ir.Named("Comment")}, sv.Reachable())
}

func TestTransform_NilDocument(t *testing.T) {
	_, err := New().Transform(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilDocument)
}

func TestTransform_ValidationRejectsNonOpenAPI(t *testing.T) {
	engine := New(WithValidation(true))

	_, err := engine.Transform(context.Background(), &openapi3.T{OpenAPI: "2.0"})
	assert.ErrorIs(t, err, ErrInvalidDocument)

	// The same document passes with validation off.
	_, err = New().Transform(context.Background(), &openapi3.T{OpenAPI: "2.0"})
	assert.NoError(t, err)
}

func TestTransform_MissingPathParameterDiagnostic(t *testing.T) {
	const spec = `
openapi: "3.0.3"
info:
  title: t
  version: "1"
paths:
  /users:
    get:
      operationId: listUsers
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "204":
          description: no content
`
	doc := loadDoc(t, spec)

	result, err := New().Transform(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, result.Diagnostics().Has(debug.DiagMissingPathParameter))
}

func TestResultGraph_CarriesResourceDependencies(t *testing.T) {
	const spec = `
openapi: "3.0.3"
info:
  title: t
  version: "1"
paths: {}
components:
  schemas:
    Customer:
      type: object
      x-resourceId: customer
      properties:
        shared:
          $ref: "#/components/schemas/Shared"
    Invoice:
      type: object
      x-resourceId: invoice
      properties:
        shared:
          $ref: "#/components/schemas/Shared"
    Shared:
      type: object
      properties:
        id:
          type: string
`
	doc := loadDoc(t, spec)

	engine := New(WithResourceDependency("invoice", "customer"))
	result, err := engine.Transform(context.Background(), doc)
	require.NoError(t, err)

	gate := result.Graph().FeatureGate(ir.Named("Shared"))
	assert.Equal(t, []string{"customer"}, gate.Resources())
}
