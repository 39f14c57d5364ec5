// Package build turns a parsed OpenAPI document into IR: it resolves
// references, assigns identifiers, and transforms schemas and operations.
// The graph and view layers build on its output.
package build

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/talav/irgen/config"
	"github.com/talav/irgen/debug"
	"github.com/talav/irgen/ir"
)

// Transformer converts a parsed OpenAPI 3.x document into an ir.Spec in one
// pass. It is not safe for concurrent use; create one per transformation.
type Transformer struct {
	doc *openapi3.T
	cfg config.Config
	reg *Registry
	res *Resolver

	spec     *ir.Spec
	building map[string]bool      // named schemas currently being linearized
	complete map[ir.TypeName]bool // entries with their final payload in place
}

// NewTransformer creates a transformer over the given document.
func NewTransformer(doc *openapi3.T, cfg config.Config) *Transformer {
	return &Transformer{
		doc:      doc,
		cfg:      cfg,
		reg:      NewRegistry(),
		res:      NewResolver(doc),
		spec:     ir.NewSpec(),
		building: make(map[string]bool),
		complete: make(map[ir.TypeName]bool),
	}
}

// Transform runs the transformation and returns the populated spec. Named
// schemas come first in document order, then inline schemas in depth-first
// discovery order, then operations in path order.
func (t *Transformer) Transform() *ir.Spec {
	names := t.componentNames()

	// Pre-register identifiers and positions so that forward references
	// resolve to their final names and named entries precede all inline
	// entries in the spec's insertion order.
	for _, docName := range names {
		name := t.reg.Named(docName)
		t.spec.Put(&ir.SchemaEntry{Name: name})
	}

	for _, docName := range names {
		t.ensureNamed(docName)
	}

	t.transformOperations()

	return t.spec
}

// componentNames returns the document's schema names in document order.
// The parsed component map carries no declaration order, so document order
// is the lexicographic order of names; it is stable across runs.
func (t *Transformer) componentNames() []string {
	if t.doc.Components == nil {
		return nil
	}
	names := make([]string, 0, len(t.doc.Components.Schemas))
	for n := range t.doc.Components.Schemas {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// ensureNamed transforms the named schema if it has not been transformed
// yet. Returns false when the name is unknown or when the schema is
// currently being built further up the stack (an allOf cycle).
func (t *Transformer) ensureNamed(docName string) (*ir.SchemaEntry, bool) {
	sr, ok := t.schemaByName(docName)
	if !ok {
		return nil, false
	}
	name := t.reg.Named(docName)
	if t.complete[name] {
		e, _ := t.spec.Schema(name)

		return e, true
	}
	if t.building[docName] {
		return nil, false
	}

	t.building[docName] = true
	ptr := "#/components/schemas/" + docName
	entry := t.schemaEntry(name, nil, sr, ir.NewPath(name.Key()), ptr)
	delete(t.building, docName)

	t.spec.Put(entry)
	t.complete[name] = true

	return entry, true
}

func (t *Transformer) schemaByName(docName string) (*openapi3.SchemaRef, bool) {
	if t.doc.Components == nil {
		return nil, false
	}
	sr, ok := t.doc.Components.Schemas[docName]

	return sr, ok
}

// inlineEntry registers an anonymous composite schema as its own spec entry
// and returns its identifier. Registering the same path twice returns the
// existing identifier.
func (t *Transformer) inlineEntry(at ir.Path, sr *openapi3.SchemaRef, ptr string) ir.TypeName {
	name := t.reg.Inline(at)
	if t.complete[name] {
		return name
	}

	// Placeholder first: the schema may reference itself through a $ref.
	path := at
	t.spec.Put(&ir.SchemaEntry{Name: name, Path: &path})
	t.complete[name] = true

	entry := t.schemaEntry(name, &path, sr, at, ptr)
	t.spec.Put(entry)

	return name
}

// schemaEntry builds the composite payload for one schema: struct, union,
// enum, or alias. base is the inline-path context for subschemas; ptr is
// the JSON pointer of the node for diagnostics.
func (t *Transformer) schemaEntry(name ir.TypeName, path *ir.Path, sr *openapi3.SchemaRef, base ir.Path, ptr string) *ir.SchemaEntry {
	entry := &ir.SchemaEntry{Name: name, Path: path}

	if sr == nil || (sr.Value == nil && sr.Ref == "") {
		entry.Kind = ir.SchemaAlias
		alias := ir.AnyType()
		entry.Alias = &alias

		return entry
	}

	// A named schema that is a bare $ref becomes an alias to its target.
	if sr.Ref != "" && isBareRef(sr) {
		entry.Kind = ir.SchemaAlias
		alias := t.refType(sr.Ref, ptr)
		entry.Alias = &alias

		return entry
	}

	s := sr.Value
	entry.Doc = s.Description
	entry.Deprecated = s.Deprecated
	entry.Resource = extString(s.Extensions, "x-resourceId")

	switch {
	case len(s.AllOf) > 0 || len(s.Properties) > 0 || (len(s.AnyOf) > 0 && len(s.OneOf) == 0):
		entry.Kind = ir.SchemaStruct
		entry.Struct = t.buildStruct(s, base, ptr)
	case len(s.OneOf) > 0:
		t.buildOneOf(entry, s, base, ptr)
	case isStringEnum(s):
		entry.Kind = ir.SchemaEnum
		entry.Enum = buildStringEnum(s)
	case isObjectType(s) && s.AdditionalProperties.Schema == nil && !hasExplicitAdditional(s):
		// type: object with no properties and no value schema is a
		// free-form object.
		entry.Kind = ir.SchemaAlias
		alias := ir.MapOf(ir.AnyType())
		entry.Alias = &alias
	default:
		entry.Kind = ir.SchemaAlias
		alias := t.typeOf(sr, base, ptr)
		entry.Alias = &alias
	}

	return entry
}

// isStringEnum reports whether the schema is an enum whose values are all
// strings. Enums over other primitives stay plain primitives.
func isStringEnum(s *openapi3.Schema) bool {
	if len(s.Enum) == 0 {
		return false
	}
	for _, v := range s.Enum {
		if _, ok := v.(string); !ok {
			return false
		}
	}

	return true
}

func buildStringEnum(s *openapi3.Schema) *ir.StringEnum {
	e := &ir.StringEnum{}
	for _, v := range s.Enum {
		val, _ := v.(string)
		e.Values = append(e.Values, ir.EnumValue{Value: val})
	}

	return e
}

func isObjectType(s *openapi3.Schema) bool {
	return s.Type != nil && s.Type.Is(openapi3.TypeObject)
}

func hasExplicitAdditional(s *openapi3.Schema) bool {
	return s.AdditionalProperties.Has != nil && *s.AdditionalProperties.Has
}

// diag appends a diagnostic to the spec under construction.
func (t *Transformer) diag(code debug.Code, ptr, message string) {
	t.spec.Diagnostics.Append(debug.NewDiagnostic(code, ptr, message))
}

// extString reads a string-valued vendor extension.
func extString(ext map[string]any, key string) string {
	if ext == nil {
		return ""
	}
	v, _ := ext[key].(string)

	return v
}

// sortedPropNames returns property names in document order. As with
// component names, the parsed property map carries no declaration order,
// so document order is the stable lexicographic order.
func sortedPropNames(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for n := range props {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// requiredSet turns a required list into a set.
func requiredSet(required []string) map[string]bool {
	set := make(map[string]bool, len(required))
	for _, r := range required {
		set[r] = true
	}

	return set
}
