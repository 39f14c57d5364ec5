package ir

import "strconv"

// Kind discriminates the Type sum.
type Kind int

const (
	// KindUnknown marks a type that could not be resolved. Produced for
	// unrecognized type/format values and failed references.
	KindUnknown Kind = iota

	// KindAny marks an intentionally open value (empty schema, interface).
	KindAny

	// KindString is a plain string.
	KindString

	// KindInteger is an integer, optionally with a bit-width format hint.
	KindInteger

	// KindNumber is a floating-point number.
	KindNumber

	// KindBoolean is a boolean.
	KindBoolean

	// KindBytes is raw binary data (format byte/binary).
	KindBytes

	// KindDateTime is a timestamp. The wire encoding is selected by the
	// transformer configuration and recorded on the type.
	KindDateTime

	// KindURL is a URL/URI string.
	KindURL

	// KindArray is an ordered list of Elem.
	KindArray

	// KindMap is a string-keyed map of Elem (additionalProperties).
	KindMap

	// KindRef points at another schema identifier in the same Spec.
	KindRef

	// KindNullable wraps Elem to mark that the value may be explicitly
	// null on the wire.
	KindNullable
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindBytes:
		return "bytes"
	case KindDateTime:
		return "date-time"
	case KindURL:
		return "url"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindRef:
		return "ref"
	case KindNullable:
		return "nullable"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// DateTimeFormat selects the wire primitive the transformer emits for
// format: date-time schemas.
type DateTimeFormat int

const (
	// DateTimeRFC3339 keeps timestamps as RFC 3339 strings.
	DateTimeRFC3339 DateTimeFormat = iota

	// DateTimeUnixSeconds encodes timestamps as integer seconds since epoch.
	DateTimeUnixSeconds

	// DateTimeUnixMilli encodes timestamps as integer milliseconds since epoch.
	DateTimeUnixMilli

	// DateTimeUnixMicro encodes timestamps as integer microseconds since epoch.
	DateTimeUnixMicro

	// DateTimeUnixNano encodes timestamps as integer nanoseconds since epoch.
	DateTimeUnixNano
)

// String returns the format name.
func (f DateTimeFormat) String() string {
	switch f {
	case DateTimeRFC3339:
		return "rfc3339"
	case DateTimeUnixSeconds:
		return "unix-seconds"
	case DateTimeUnixMilli:
		return "unix-ms"
	case DateTimeUnixMicro:
		return "unix-us"
	case DateTimeUnixNano:
		return "unix-ns"
	default:
		return "date-time-format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Type is one resolved type: a tagged variant over primitives, containers,
// references, and nullability. The active fields depend on Kind:
//
//   - KindInteger, KindString: Format may carry a hint (int32, int64, uuid,
//     date, email).
//   - KindDateTime: DateTime carries the configured serialization mode.
//   - KindArray, KindMap, KindNullable: Elem is the element/value/inner type.
//   - KindRef: Ref names the target schema.
//
// Composite schemas (structs, unions, enums) never appear inline in a Type;
// they are registered in the Spec and referenced through KindRef.
type Type struct {
	Kind     Kind
	Format   string
	DateTime DateTimeFormat
	Elem     *Type
	Ref      TypeName
}

// StringType returns a plain string type.
func StringType() Type {
	return Type{Kind: KindString}
}

// IntegerType returns an integer type with an optional bit-width hint.
func IntegerType(format string) Type {
	return Type{Kind: KindInteger, Format: format}
}

// NumberType returns a floating-point type.
func NumberType() Type {
	return Type{Kind: KindNumber}
}

// BooleanType returns a boolean type.
func BooleanType() Type {
	return Type{Kind: KindBoolean}
}

// BytesType returns a raw-bytes type.
func BytesType() Type {
	return Type{Kind: KindBytes}
}

// DateTimeType returns a timestamp type with the given wire encoding.
func DateTimeType(f DateTimeFormat) Type {
	return Type{Kind: KindDateTime, DateTime: f}
}

// URLType returns a URL type.
func URLType() Type {
	return Type{Kind: KindURL}
}

// AnyType returns an intentionally open type.
func AnyType() Type {
	return Type{Kind: KindAny}
}

// UnknownType returns an unresolvable type.
func UnknownType() Type {
	return Type{Kind: KindUnknown}
}

// ArrayOf returns an array of elem.
func ArrayOf(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

// MapOf returns a string-keyed map of value.
func MapOf(value Type) Type {
	return Type{Kind: KindMap, Elem: &value}
}

// RefTo returns a reference to the named schema.
func RefTo(name TypeName) Type {
	return Type{Kind: KindRef, Ref: name}
}

// NullableOf wraps inner as explicitly nullable. Wrapping an already
// nullable type is a no-op.
func NullableOf(inner Type) Type {
	if inner.Kind == KindNullable {
		return inner
	}

	return Type{Kind: KindNullable, Elem: &inner}
}

// Unwrap strips Nullable wrappers and returns the underlying type.
func (t Type) Unwrap() Type {
	for t.Kind == KindNullable && t.Elem != nil {
		t = *t.Elem
	}

	return t
}

// IsNullable reports whether the type is wrapped in Nullable.
func (t Type) IsNullable() bool {
	return t.Kind == KindNullable
}

// TerminalRef returns the schema identifier the type ultimately points at,
// looking through Nullable wrappers only. Containers do not count: an array
// of references has no terminal ref because the container itself is the
// field's immediate type.
func (t Type) TerminalRef() (TypeName, bool) {
	u := t.Unwrap()
	if u.Kind == KindRef {
		return u.Ref, true
	}

	return TypeName{}, false
}

// Equal reports structural equality of two types.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Format != o.Format || t.DateTime != o.DateTime || t.Ref != o.Ref {
		return false
	}
	if (t.Elem == nil) != (o.Elem == nil) {
		return false
	}
	if t.Elem != nil {
		return t.Elem.Equal(*o.Elem)
	}

	return true
}
