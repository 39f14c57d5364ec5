// Package ir defines the intermediate representation produced by the
// transformer: schema identifiers, the type sum, composite schemas,
// operations, and the Spec container that holds them all.
//
// The IR is plain data. It carries no graph knowledge; reachability,
// indirection, and derivability live in the graph package and are exposed
// to emitters through the view package.
package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind identifies one step of an inline path.
type SegmentKind int

const (
	// SegField descends into a named property of an object schema.
	SegField SegmentKind = iota

	// SegArrayItem descends into the item schema of an array.
	SegArrayItem

	// SegMapValue descends into the additionalProperties schema of a map.
	SegMapValue

	// SegVariant descends into one branch of a oneOf/anyOf composition.
	SegVariant

	// SegParameter descends into an operation parameter schema.
	SegParameter

	// SegBody descends into a message body schema: an operation request
	// body, or the body of a response below a SegResponse step.
	SegBody

	// SegResponse descends into an operation response.
	SegResponse
)

// Segment is one step of an inline path. The payload depends on the kind:
// Field, Parameter, and Variant carry a name (for Variant, the tag value or
// the stringified branch index); Response carries a status code.
type Segment struct {
	Kind   SegmentKind
	Name   string
	Status int
}

// FieldSegment locates the schema of the named property.
func FieldSegment(name string) Segment {
	return Segment{Kind: SegField, Name: name}
}

// ArrayItemSegment locates the item schema of an array.
func ArrayItemSegment() Segment {
	return Segment{Kind: SegArrayItem}
}

// MapValueSegment locates the additionalProperties schema of a map.
func MapValueSegment() Segment {
	return Segment{Kind: SegMapValue}
}

// VariantSegment locates one branch of a union. The payload is the
// discriminator tag when known, otherwise the stringified branch index.
func VariantSegment(tagOrIndex string) Segment {
	return Segment{Kind: SegVariant, Name: tagOrIndex}
}

// ParameterSegment locates the schema of a named operation parameter.
func ParameterSegment(name string) Segment {
	return Segment{Kind: SegParameter, Name: name}
}

// BodySegment locates a message body schema.
func BodySegment() Segment {
	return Segment{Kind: SegBody}
}

// ResponseSegment locates an operation response; a following BodySegment
// locates its body schema.
func ResponseSegment(status int) Segment {
	return Segment{Kind: SegResponse, Status: status}
}

// key returns the canonical encoding of the segment, used to build unique
// identifier keys. Pretty labels for emitters come from Label.
func (s Segment) key() string {
	switch s.Kind {
	case SegField:
		return "field(" + s.Name + ")"
	case SegArrayItem:
		return "item"
	case SegMapValue:
		return "value"
	case SegVariant:
		return "variant(" + s.Name + ")"
	case SegParameter:
		return "param(" + s.Name + ")"
	case SegBody:
		return "body"
	case SegResponse:
		return "response(" + strconv.Itoa(s.Status) + ")"
	default:
		return "unknown"
	}
}

// Label returns a human-oriented fragment for the segment. Emitters combine
// labels with their own case conversion to invent names for inline types.
func (s Segment) Label() string {
	switch s.Kind {
	case SegField, SegVariant, SegParameter:
		return s.Name
	case SegArrayItem:
		return "Item"
	case SegMapValue:
		return "Value"
	case SegBody:
		return "Body"
	case SegResponse:
		return "Response" + strconv.Itoa(s.Status)
	default:
		return ""
	}
}

// RootKind identifies what an inline path descends from.
type RootKind int

const (
	// RootSchema roots the path at a named schema identifier.
	RootSchema RootKind = iota

	// RootOperation roots the path at an operation identifier.
	RootOperation
)

// Path locates an inline schema relative to a named root: a named schema or
// an operation the traversal started from.
type Path struct {
	// RootKind tells whether Root names a schema or an operation.
	RootKind RootKind

	// Root is the identifier the path descends from.
	Root string

	// Segments describe the traversal from the root, outermost first.
	Segments []Segment
}

// NewPath creates a path rooted at a named schema.
func NewPath(root string, segments ...Segment) Path {
	return Path{Root: root, Segments: segments}
}

// NewOperationPath creates a path rooted at an operation.
func NewOperationPath(opID string, segments ...Segment) Path {
	return Path{RootKind: RootOperation, Root: opID, Segments: segments}
}

// Child extends the path by one segment. The receiver is not modified.
func (p Path) Child(seg Segment) Path {
	segs := make([]Segment, 0, len(p.Segments)+1)
	segs = append(segs, p.Segments...)
	segs = append(segs, seg)

	return Path{RootKind: p.RootKind, Root: p.Root, Segments: segs}
}

// Key returns the canonical string encoding of the path. Equal paths have
// equal keys; distinct paths have distinct keys.
func (p Path) Key() string {
	var b strings.Builder
	if p.RootKind == RootOperation {
		b.WriteString("op:")
	}
	b.WriteString(p.Root)
	for _, s := range p.Segments {
		b.WriteByte('/')
		b.WriteString(s.key())
	}

	return b.String()
}

// String returns the key. Paths print like "Order/field(items)/item".
func (p Path) String() string {
	return p.Key()
}

// TypeName is a unique, stable handle for one schema in a Spec: either a
// named identifier from the document's components section or an inline path.
// TypeName is comparable and usable as a map key. The full Path of an inline
// identifier is recorded on the SchemaEntry it names.
type TypeName struct {
	key    string
	inline bool
}

// Named creates an identifier for a schema named in the document.
func Named(name string) TypeName {
	return TypeName{key: name}
}

// InlineName creates an identifier for an anonymous schema located by path.
func InlineName(p Path) TypeName {
	return TypeName{key: p.Key(), inline: true}
}

// Key returns the canonical unique string for the identifier.
func (n TypeName) Key() string {
	return n.key
}

// IsInline reports whether the identifier denotes an inline schema.
func (n TypeName) IsInline() bool {
	return n.inline
}

// IsZero reports whether the identifier is the zero value.
func (n TypeName) IsZero() bool {
	return n.key == ""
}

// String returns the key, marking inline identifiers for readability.
func (n TypeName) String() string {
	if n.inline {
		return fmt.Sprintf("inline(%s)", n.key)
	}

	return n.key
}
