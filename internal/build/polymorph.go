package build

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/talav/irgen/debug"
	"github.com/talav/irgen/ir"
)

// fieldAccum assembles struct fields in linearization order while handling
// overrides: a later (more derived) field replaces an earlier one in place,
// so positions follow the first occurrence and content follows the last.
type fieldAccum struct {
	t      *Transformer
	fields []ir.Field
	index  map[string]int
}

func (t *Transformer) newFieldAccum() *fieldAccum {
	return &fieldAccum{t: t, index: make(map[string]int)}
}

func (a *fieldAccum) add(f ir.Field, ptr string) {
	if i, ok := a.index[f.Name]; ok {
		prev := a.fields[i]
		if !prev.Type.Equal(f.Type) {
			a.t.diag(debug.DiagConflictingInheritedField, ptr,
				fmt.Sprintf("field %q inherited with conflicting types; the more derived wins", f.Name))
		}
		a.fields[i] = f

		return
	}
	a.index[f.Name] = len(a.fields)
	a.fields = append(a.fields, f)
}

// buildStruct assembles a struct from allOf ancestors, own properties, and
// anyOf-flattened fields, in that order. The inherited discriminator field,
// when present, is moved to the front.
func (t *Transformer) buildStruct(s *openapi3.Schema, base ir.Path, ptr string) *ir.Struct {
	acc := t.newFieldAccum()
	discName := ""

	for i, branch := range s.AllOf {
		branchPtr := ptr + "/allOf/" + strconv.Itoa(i)
		if d := t.mergeAncestor(acc, branch, base, branchPtr); d != "" && discName == "" {
			discName = d
		}
	}

	t.addOwnProperties(acc, s, base, ptr)

	for i, branch := range s.AnyOf {
		t.flattenAnyOfBranch(acc, branch, base, ptr+"/anyOf/"+strconv.Itoa(i))
	}

	st := &ir.Struct{Fields: acc.fields}
	if s.Discriminator != nil && s.Discriminator.PropertyName != "" && discName == "" {
		discName = s.Discriminator.PropertyName
	}
	if discName != "" {
		frontDiscriminator(st, discName)
	}

	return st
}

// mergeAncestor inlines one allOf branch: a $ref to a named ancestor pulls
// in that ancestor's linearized fields; an inline branch contributes its own
// properties. Returns the ancestor's discriminator property, if any.
func (t *Transformer) mergeAncestor(acc *fieldAccum, branch *openapi3.SchemaRef, base ir.Path, ptr string) string {
	if branch == nil {
		return ""
	}

	if branch.Ref != "" {
		tgt, err := t.res.Resolve(branch.Ref)
		if err != nil || len(tgt.Segments) > 0 {
			t.diag(debug.DiagUnknownPointer, ptr, "allOf ancestor reference cannot be resolved")

			return ""
		}
		entry, ok := t.ensureNamed(tgt.Name)
		if !ok {
			// The ancestor is currently being linearized further up the
			// stack: an allOf cycle. The first visit wins.
			t.diag(debug.DiagAllOfCycle, ptr,
				fmt.Sprintf("allOf cycle through %q", tgt.Name))

			return ""
		}
		if entry.Kind != ir.SchemaStruct || entry.Struct == nil {
			t.diag(debug.DiagUnknownPointer, ptr,
				fmt.Sprintf("allOf ancestor %q is not a struct", tgt.Name))

			return ""
		}
		for _, f := range entry.Struct.Fields {
			f.Inherited = true
			acc.add(f, ptr)
		}
		if tgt.Schema != nil && tgt.Schema.Value != nil && tgt.Schema.Value.Discriminator != nil {
			return tgt.Schema.Value.Discriminator.PropertyName
		}

		return ""
	}

	// Inline mixin branch: contribute its properties directly. Nested
	// allOf inside a mixin linearizes depth-first.
	s := branch.Value
	if s == nil {
		return ""
	}
	disc := ""
	for i, nested := range s.AllOf {
		if d := t.mergeAncestor(acc, nested, base, ptr+"/allOf/"+strconv.Itoa(i)); d != "" && disc == "" {
			disc = d
		}
	}
	required := requiredSet(s.Required)
	for _, prop := range sortedPropNames(s.Properties) {
		f := t.buildField(prop, s.Properties[prop], required[prop], base, ptr)
		f.Inherited = true
		acc.add(f, ptr)
	}
	if s.Discriminator != nil && disc == "" {
		disc = s.Discriminator.PropertyName
	}

	return disc
}

// addOwnProperties appends the schema's own properties after any inherited
// ones.
func (t *Transformer) addOwnProperties(acc *fieldAccum, s *openapi3.Schema, base ir.Path, ptr string) {
	required := requiredSet(s.Required)
	for _, prop := range sortedPropNames(s.Properties) {
		acc.add(t.buildField(prop, s.Properties[prop], required[prop], base, ptr), ptr)
	}
}

// buildField constructs one struct field from a property schema.
func (t *Transformer) buildField(name string, prop *openapi3.SchemaRef, required bool, base ir.Path, ptr string) ir.Field {
	f := ir.Field{
		Name:     name,
		Required: required,
		Type:     t.typeOf(prop, base.Child(ir.FieldSegment(name)), ptr+"/properties/"+name),
	}
	if prop != nil && prop.Value != nil {
		f.Doc = prop.Value.Description
		f.Default = prop.Value.Default
		f.Deprecated = prop.Value.Deprecated
	}

	return f
}

// flattenAnyOfBranch merges one anyOf branch into the outer struct. Every
// contributed field is optional and marked FromAnyOf regardless of the
// branch's required list. Branches must be structs or references to
// structs; polymorphic and non-struct branches are dropped.
func (t *Transformer) flattenAnyOfBranch(acc *fieldAccum, branch *openapi3.SchemaRef, base ir.Path, ptr string) {
	if branch == nil {
		return
	}

	if branch.Ref != "" {
		tgt, err := t.res.Resolve(branch.Ref)
		if err != nil || len(tgt.Segments) > 0 {
			t.diag(debug.DiagNonStructAnyOfBranch, ptr, "anyOf branch reference cannot be resolved")

			return
		}
		entry, ok := t.ensureNamed(tgt.Name)
		if !ok || entry.Kind != ir.SchemaStruct || entry.Struct == nil {
			t.diag(debug.DiagNonStructAnyOfBranch, ptr,
				fmt.Sprintf("anyOf branch %q is not a struct", tgt.Name))

			return
		}
		for _, f := range entry.Struct.Fields {
			f.Required = false
			f.FromAnyOf = true
			f.Inherited = false
			acc.add(f, ptr)
		}

		return
	}

	s := branch.Value
	if s == nil || len(s.Properties) == 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0 || len(s.AllOf) > 0 {
		t.diag(debug.DiagNonStructAnyOfBranch, ptr, "anyOf branch is not a plain struct")

		return
	}
	for _, prop := range sortedPropNames(s.Properties) {
		f := t.buildField(prop, s.Properties[prop], false, base, ptr)
		f.FromAnyOf = true
		acc.add(f, ptr)
	}
}

// frontDiscriminator moves the discriminator field to the front of the
// struct, injecting a required string field when the document never
// declared it.
func frontDiscriminator(st *ir.Struct, name string) {
	for i := range st.Fields {
		if st.Fields[i].Name == name {
			f := st.Fields[i]
			copy(st.Fields[1:i+1], st.Fields[:i])
			st.Fields[0] = f

			return
		}
	}

	fields := make([]ir.Field, 0, len(st.Fields)+1)
	fields = append(fields, ir.Field{
		Name:      name,
		Type:      ir.StringType(),
		Required:  true,
		Inherited: true,
	})
	st.Fields = append(fields, st.Fields...)
}

// buildOneOf populates entry with a tagged union when the schema declares a
// usable discriminator, or an untagged union otherwise.
func (t *Transformer) buildOneOf(entry *ir.SchemaEntry, s *openapi3.Schema, base ir.Path, ptr string) {
	disc := s.Discriminator
	if disc != nil && disc.PropertyName == "" {
		t.diag(debug.DiagMissingDiscriminator, ptr,
			"discriminator without propertyName; treating union as untagged")
		disc = nil
	}

	if disc == nil {
		entry.Kind = ir.SchemaUntagged
		entry.Untagged = t.buildUntagged(s, base, ptr)

		return
	}

	entry.Kind = ir.SchemaTagged
	entry.Tagged = t.buildTagged(s, disc, base, ptr)
}

// buildUntagged numbers variants by source order; the ordering is what
// downstream deserializers try first.
func (t *Transformer) buildUntagged(s *openapi3.Schema, base ir.Path, ptr string) *ir.Untagged {
	u := &ir.Untagged{}
	for i, branch := range s.OneOf {
		at := base.Child(ir.VariantSegment(strconv.Itoa(i + 1)))
		typ := t.typeOf(branch, at, ptr+"/oneOf/"+strconv.Itoa(i))
		v := ir.UntaggedVariant{Type: typ}
		if branch != nil && branch.Value != nil {
			v.Doc = branch.Value.Description
		}
		u.Variants = append(u.Variants, v)
	}

	return u
}

// buildTagged assembles a discriminated union. Variants keep declaration
// order; tags come from the explicit mapping, defaulting to the bare schema
// name. Every variant must resolve to a struct, and the transformer
// guarantees the struct carries the discriminator property.
func (t *Transformer) buildTagged(s *openapi3.Schema, disc *openapi3.Discriminator, base ir.Path, ptr string) *ir.Tagged {
	tagged := &ir.Tagged{Discriminator: disc.PropertyName}
	tagByRef := invertMapping(disc.Mapping)

	for i, branch := range s.OneOf {
		branchPtr := ptr + "/oneOf/" + strconv.Itoa(i)
		tag := variantTag(branch, tagByRef, i)

		// Named variants may appear later in document order; transform
		// them now so the struct check below sees the real entry.
		if branch != nil && branch.Ref != "" {
			if tgt, err := t.res.Resolve(branch.Ref); err == nil && len(tgt.Segments) == 0 {
				t.ensureNamed(tgt.Name)
			}
		}

		at := base.Child(ir.VariantSegment(tag))
		typ := t.typeOf(branch, at, branchPtr)

		target, ok := typ.TerminalRef()
		if !ok {
			t.diag(debug.DiagNonStructDiscriminatedVariant, branchPtr,
				fmt.Sprintf("discriminated variant %q is not a struct", tag))

			continue
		}
		ventry, found := t.spec.Schema(target)
		if !found || ventry.Kind != ir.SchemaStruct || ventry.Struct == nil {
			t.diag(debug.DiagNonStructDiscriminatedVariant, branchPtr,
				fmt.Sprintf("discriminated variant %q is not a struct", tag))

			continue
		}

		t.enforceDiscriminatorField(ventry, disc.PropertyName)

		v := ir.TaggedVariant{Tag: tag, Type: typ}
		if branch != nil && branch.Value != nil {
			v.Doc = branch.Value.Description
		}
		tagged.Variants = append(tagged.Variants, v)
	}

	// The default-variant rule: a document-level default selecting one of
	// the tags is honored when the discriminator is absent on the wire.
	if def, ok := s.Default.(string); ok {
		if _, found := tagged.Variant(def); found {
			tagged.DefaultVariant = def
		}
	}

	return tagged
}

// variantTag determines the tag for one discriminated branch: the explicit
// mapping entry, the bare referenced name, the title, or the 1-based index.
func variantTag(branch *openapi3.SchemaRef, tagByRef map[string]string, i int) string {
	if branch != nil && branch.Ref != "" {
		if tag, ok := tagByRef[branch.Ref]; ok {
			return tag
		}
		if tag, ok := tagByRef[bareRefName(branch.Ref)]; ok {
			return tag
		}

		return bareRefName(branch.Ref)
	}
	if branch != nil && branch.Value != nil && branch.Value.Title != "" {
		return branch.Value.Title
	}

	return strconv.Itoa(i + 1)
}

// invertMapping flips discriminator.mapping from tag->ref to ref->tag.
// Mapping iteration is sorted so that duplicate refs resolve to the
// lexicographically-first tag deterministically.
func invertMapping(mapping map[string]string) map[string]string {
	tags := make([]string, 0, len(mapping))
	for tag := range mapping {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	out := make(map[string]string, len(mapping))
	for _, tag := range tags {
		ref := mapping[tag]
		if _, ok := out[ref]; !ok {
			out[ref] = tag
		}
		bare := bareRefName(ref)
		if _, ok := out[bare]; !ok {
			out[bare] = tag
		}
	}

	return out
}

func bareRefName(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}

	return ref
}

// enforceDiscriminatorField guarantees the variant struct carries the
// discriminator as a leading string field, injecting it when missing.
func (t *Transformer) enforceDiscriminatorField(entry *ir.SchemaEntry, name string) {
	if entry.Struct == nil {
		return
	}
	if _, ok := entry.Struct.Field(name); ok {
		return
	}
	frontDiscriminator(entry.Struct, name)
}
