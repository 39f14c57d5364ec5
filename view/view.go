// Package view exposes graph-aware, read-only accessors over the IR.
// Emitters consume views instead of touching raw spec data, so every
// graph decision (indirection, reachability, derivability, feature gates)
// is consulted rather than reimplemented downstream.
//
// Views borrow the graph and allocate no IR entities. Any number of views
// over the same graph may coexist, and because the underlying data is
// immutable, concurrent reads need no locks.
package view

import (
	"github.com/talav/irgen/graph"
	"github.com/talav/irgen/ir"
)

// schemaView is the shared borrow behind every schema-backed view.
type schemaView struct {
	g     *graph.Graph
	entry *ir.SchemaEntry
}

// Name returns the schema identifier.
func (v schemaView) Name() ir.TypeName {
	return v.entry.Name
}

// IsInline reports whether the identifier is an inline path.
func (v schemaView) IsInline() bool {
	return v.entry.Name.IsInline()
}

// Path returns the inline path for inline schemas.
func (v schemaView) Path() (ir.Path, bool) {
	if v.entry.Path == nil {
		return ir.Path{}, false
	}

	return *v.entry.Path, true
}

// Doc returns the schema documentation.
func (v schemaView) Doc() string {
	return v.entry.Doc
}

// Deprecated reports whether the schema is deprecated.
func (v schemaView) Deprecated() bool {
	return v.entry.Deprecated
}

// Inlines returns the inline schemas rooted at this type, in spec order.
func (v schemaView) Inlines() []ir.TypeName {
	return v.g.Inlines(v.entry.Name)
}

// Reachable returns the transitive dependency set, in spec order.
func (v schemaView) Reachable() []ir.TypeName {
	return v.g.Reachable(v.entry.Name)
}

// UsedBy returns the transitive user set, in spec order.
func (v schemaView) UsedBy() []ir.TypeName {
	return v.g.UsedBy(v.entry.Name)
}

// CanDeriveEquality reports whether the type admits equality and hash.
func (v schemaView) CanDeriveEquality() bool {
	return v.g.CanDeriveEquality(v.entry.Name)
}

// CanDeriveDefault reports whether the type admits a natural default.
func (v schemaView) CanDeriveDefault() bool {
	return v.g.CanDeriveDefault(v.entry.Name)
}

// FeatureGate returns the minimal feature expression of the type.
func (v schemaView) FeatureGate() graph.FeatureGate {
	return v.g.FeatureGate(v.entry.Name)
}

func newSchemaView(g *graph.Graph, name ir.TypeName, kind ir.SchemaKind) (schemaView, bool) {
	entry, ok := g.Spec().Schema(name)
	if !ok || entry.Kind != kind {
		return schemaView{}, false
	}

	return schemaView{g: g, entry: entry}, true
}

// StructView is a read-only view over a struct schema.
type StructView struct {
	schemaView
}

// Struct creates a view over the named struct schema.
func Struct(g *graph.Graph, name ir.TypeName) (StructView, bool) {
	sv, ok := newSchemaView(g, name, ir.SchemaStruct)
	if !ok || sv.entry.Struct == nil {
		return StructView{}, false
	}

	return StructView{schemaView: sv}, true
}

// Fields returns the struct's fields in linearized order.
func (v StructView) Fields() []FieldView {
	fields := v.entry.Struct.Fields
	out := make([]FieldView, len(fields))
	for i := range fields {
		out[i] = FieldView{g: v.g, owner: v.entry.Name, field: &fields[i]}
	}

	return out
}

// Field returns the named field, if present.
func (v StructView) Field(name string) (FieldView, bool) {
	f, ok := v.entry.Struct.Field(name)
	if !ok {
		return FieldView{}, false
	}

	return FieldView{g: v.g, owner: v.entry.Name, field: f}, true
}

// NeedsIndirection reports whether the named field requires heap
// indirection to break a reference cycle.
func (v StructView) NeedsIndirection(field string) bool {
	return v.g.NeedsIndirection(v.entry.Name, field)
}

// FieldView is a read-only view over one struct field.
type FieldView struct {
	g     *graph.Graph
	owner ir.TypeName
	field *ir.Field
}

// Name returns the wire name of the field.
func (v FieldView) Name() string {
	return v.field.Name
}

// Type returns the field's resolved type.
func (v FieldView) Type() ir.Type {
	return v.field.Type
}

// Required reports whether the field is required.
func (v FieldView) Required() bool {
	return v.field.Required
}

// Default returns the document-declared default, if any.
func (v FieldView) Default() any {
	return v.field.Default
}

// Doc returns the field documentation.
func (v FieldView) Doc() string {
	return v.field.Doc
}

// FromAnyOf reports whether the field was flattened from an anyOf branch.
func (v FieldView) FromAnyOf() bool {
	return v.field.FromAnyOf
}

// Inherited reports whether the field came from an allOf ancestor.
func (v FieldView) Inherited() bool {
	return v.field.Inherited
}

// NeedsIndirection reports whether this field requires heap indirection.
func (v FieldView) NeedsIndirection() bool {
	return v.g.NeedsIndirection(v.owner, v.field.Name)
}

// TaggedView is a read-only view over a discriminated union.
type TaggedView struct {
	schemaView
}

// Tagged creates a view over the named tagged union.
func Tagged(g *graph.Graph, name ir.TypeName) (TaggedView, bool) {
	sv, ok := newSchemaView(g, name, ir.SchemaTagged)
	if !ok || sv.entry.Tagged == nil {
		return TaggedView{}, false
	}

	return TaggedView{schemaView: sv}, true
}

// Discriminator returns the discriminator property name.
func (v TaggedView) Discriminator() string {
	return v.entry.Tagged.Discriminator
}

// DefaultVariant returns the tag assumed when the discriminator is absent
// on the wire; empty when deserialization must fail instead.
func (v TaggedView) DefaultVariant() string {
	return v.entry.Tagged.DefaultVariant
}

// Variants returns the union's variants in declaration order.
func (v TaggedView) Variants() []VariantView {
	variants := v.entry.Tagged.Variants
	out := make([]VariantView, len(variants))
	for i := range variants {
		out[i] = VariantView{
			g:     v.g,
			owner: v.entry.Name,
			pos:   i,
			tag:   variants[i].Tag,
			typ:   variants[i].Type,
			doc:   variants[i].Doc,
		}
	}

	return out
}

// UntaggedView is a read-only view over an untagged union.
type UntaggedView struct {
	schemaView
}

// Untagged creates a view over the named untagged union.
func Untagged(g *graph.Graph, name ir.TypeName) (UntaggedView, bool) {
	sv, ok := newSchemaView(g, name, ir.SchemaUntagged)
	if !ok || sv.entry.Untagged == nil {
		return UntaggedView{}, false
	}

	return UntaggedView{schemaView: sv}, true
}

// Variants returns the union's variants in declaration order. Emitters
// number them V1, V2, ... following this order.
func (v UntaggedView) Variants() []VariantView {
	variants := v.entry.Untagged.Variants
	out := make([]VariantView, len(variants))
	for i := range variants {
		out[i] = VariantView{
			g:     v.g,
			owner: v.entry.Name,
			pos:   i,
			typ:   variants[i].Type,
			doc:   variants[i].Doc,
		}
	}

	return out
}

// VariantView is a read-only view over one union variant.
type VariantView struct {
	g     *graph.Graph
	owner ir.TypeName
	pos   int
	tag   string
	typ   ir.Type
	doc   string
}

// Tag returns the discriminator value selecting this variant; empty for
// untagged unions.
func (v VariantView) Tag() string {
	return v.tag
}

// Index returns the zero-based declaration position of the variant.
func (v VariantView) Index() int {
	return v.pos
}

// Type returns the variant's type.
func (v VariantView) Type() ir.Type {
	return v.typ
}

// Doc returns the variant documentation.
func (v VariantView) Doc() string {
	return v.doc
}

// NeedsIndirection reports whether the variant requires heap indirection.
func (v VariantView) NeedsIndirection() bool {
	return v.g.VariantNeedsIndirection(v.owner, v.pos)
}

// EnumView is a read-only view over a string enum.
type EnumView struct {
	schemaView
}

// Enum creates a view over the named string enum.
func Enum(g *graph.Graph, name ir.TypeName) (EnumView, bool) {
	sv, ok := newSchemaView(g, name, ir.SchemaEnum)
	if !ok || sv.entry.Enum == nil {
		return EnumView{}, false
	}

	return EnumView{schemaView: sv}, true
}

// Values returns the permitted values in declaration order.
func (v EnumView) Values() []ir.EnumValue {
	out := make([]ir.EnumValue, len(v.entry.Enum.Values))
	copy(out, v.entry.Enum.Values)

	return out
}
