package ir

// SchemaKind discriminates the composite schema sum stored in a Spec entry.
type SchemaKind int

const (
	// SchemaStruct is an ordered list of fields.
	SchemaStruct SchemaKind = iota

	// SchemaTagged is a discriminated union.
	SchemaTagged

	// SchemaUntagged is a union distinguished only by structural
	// deserialization.
	SchemaUntagged

	// SchemaEnum is a closed set of string values.
	SchemaEnum

	// SchemaAlias is a named schema that resolves to a plain type: a named
	// primitive, array, or map. Aliases keep named non-composite schemas
	// addressable so references to them stay stable.
	SchemaAlias
)

// String returns the schema kind name.
func (k SchemaKind) String() string {
	switch k {
	case SchemaStruct:
		return "struct"
	case SchemaTagged:
		return "tagged"
	case SchemaUntagged:
		return "untagged"
	case SchemaEnum:
		return "enum"
	case SchemaAlias:
		return "alias"
	default:
		return "schema"
	}
}

// SchemaEntry is one schema in a Spec: identifier, location, documentation,
// and the composite payload selected by Kind. Exactly one of Struct, Tagged,
// Untagged, Enum, Alias is non-nil.
type SchemaEntry struct {
	// Name is the unique identifier of the schema within the Spec.
	Name TypeName

	// Path locates the schema when Name is inline; nil for named schemas.
	Path *Path

	// Doc is the schema description, if any.
	Doc string

	// Deprecated marks the schema as deprecated in the source document.
	Deprecated bool

	// Resource is the x-resourceId annotation, if any. Feature gating
	// propagates from these annotations.
	Resource string

	Kind     SchemaKind
	Struct   *Struct
	Tagged   *Tagged
	Untagged *Untagged
	Enum     *StringEnum
	Alias    *Type
}

// Struct is an ordered list of fields. Field order is significant: the
// inherited discriminator comes first, then allOf ancestor fields from
// least-derived to most-derived, then the schema's own properties, then
// anyOf-flattened fields.
type Struct struct {
	Fields []Field
}

// Field returns the field with the given name, if present.
func (s *Struct) Field(name string) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}

	return nil, false
}

// Field is one struct member.
type Field struct {
	// Name is the wire name of the property.
	Name string

	// Type is the field's resolved type.
	Type Type

	// Required reports whether the property is listed in the schema's
	// required set. Fields flattened from anyOf are never required.
	Required bool

	// Default is the document-declared default value, if any.
	Default any

	// Doc is the property description, if any.
	Doc string

	// Deprecated marks the property as deprecated.
	Deprecated bool

	// FromAnyOf marks a field contributed by an anyOf branch. Such fields
	// are semantically merged into the struct and always optional.
	FromAnyOf bool

	// Inherited marks a field contributed by an allOf ancestor.
	Inherited bool
}

// Tagged is a discriminated union. Variant order follows the source
// document's declaration order.
type Tagged struct {
	// Discriminator is the property whose value selects the variant.
	Discriminator string

	// DefaultVariant is the tag assumed when the discriminator is absent
	// on the wire; empty means deserialization must fail instead.
	DefaultVariant string

	// Variants maps tag values to variant types in declaration order.
	Variants []TaggedVariant
}

// Variant returns the variant with the given tag, if present.
func (t *Tagged) Variant(tag string) (*TaggedVariant, bool) {
	for i := range t.Variants {
		if t.Variants[i].Tag == tag {
			return &t.Variants[i], true
		}
	}

	return nil, false
}

// TaggedVariant is one branch of a discriminated union. The type is always
// a reference to a struct that carries the discriminator property.
type TaggedVariant struct {
	Tag  string
	Type Type
	Doc  string
}

// Untagged is a union without a discriminator. Branch order is significant:
// deserializers try variants in this order, and emitters number them
// V1, V2, ... accordingly.
type Untagged struct {
	Variants []UntaggedVariant
}

// UntaggedVariant is one branch of an untagged union.
type UntaggedVariant struct {
	Type Type
	Doc  string
}

// StringEnum is a closed, ordered set of string values.
type StringEnum struct {
	Values []EnumValue
}

// Has reports whether the enum contains the given value.
func (e *StringEnum) Has(value string) bool {
	for _, v := range e.Values {
		if v.Value == value {
			return true
		}
	}

	return false
}

// EnumValue is one permitted value with optional documentation.
type EnumValue struct {
	Value string
	Doc   string
}
