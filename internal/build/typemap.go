package build

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/talav/irgen/debug"
	"github.com/talav/irgen/ir"
)

// typeOf converts a schema node into an ir.Type. at is the inline path the
// node would occupy if it turns out to be composite; ptr is the node's JSON
// pointer for diagnostics. Composite nodes are registered as inline entries
// and returned as references.
func (t *Transformer) typeOf(sr *openapi3.SchemaRef, at ir.Path, ptr string) ir.Type {
	if sr == nil || (sr.Value == nil && sr.Ref == "") {
		return ir.AnyType()
	}

	if sr.Ref != "" {
		return t.refType(sr.Ref, ptr)
	}

	s := sr.Value
	nullable := isNullable(s)
	if nullable && s.Type != nil && len(s.Type.Slice()) > 1 {
		// Map the non-null member of a type list such as ["string", "null"].
		rest := make(openapi3.Types, 0, len(s.Type.Slice()))
		for _, typ := range s.Type.Slice() {
			if typ != openapi3.TypeNull {
				rest = append(rest, typ)
			}
		}
		cp := *s
		cp.Type = &rest
		s = &cp
	}

	base := t.baseType(s, sr, at, ptr)
	if nullable {
		return ir.NullableOf(base)
	}

	return base
}

func isNullable(s *openapi3.Schema) bool {
	if s.Nullable {
		return true
	}

	return s.Type != nil && s.Type.Includes(openapi3.TypeNull) && len(s.Type.Slice()) > 1
}

// baseType maps the node's own shape, ignoring nullability.
func (t *Transformer) baseType(s *openapi3.Schema, sr *openapi3.SchemaRef, at ir.Path, ptr string) ir.Type {
	// Composites become their own spec entries.
	if isComposite(s) {
		return ir.RefTo(t.inlineEntry(at, sr, ptr))
	}

	switch {
	case s.Type == nil:
		return ir.AnyType()
	case s.Type.Is(openapi3.TypeString):
		return t.stringType(s)
	case s.Type.Is(openapi3.TypeInteger):
		return integerType(s)
	case s.Type.Is(openapi3.TypeNumber):
		return ir.NumberType()
	case s.Type.Is(openapi3.TypeBoolean):
		return ir.BooleanType()
	case s.Type.Is(openapi3.TypeArray):
		elem := t.typeOf(s.Items, at.Child(ir.ArrayItemSegment()), ptr+"/items")

		return ir.ArrayOf(elem)
	case s.Type.Is(openapi3.TypeObject):
		return t.objectType(s, at, ptr)
	case s.Type.Is(openapi3.TypeNull):
		return ir.NullableOf(ir.AnyType())
	default:
		t.diag(debug.DiagSemanticUnknown, ptr,
			fmt.Sprintf("unrecognized type %v", s.Type.Slice()))

		return ir.UnknownType()
	}
}

// isComposite reports whether the node must become its own spec entry:
// polymorphic compositions, objects with properties, and string enums.
func isComposite(s *openapi3.Schema) bool {
	if len(s.AllOf) > 0 || len(s.AnyOf) > 0 || len(s.OneOf) > 0 {
		return true
	}
	if len(s.Properties) > 0 {
		return true
	}

	return isStringEnum(s)
}

// objectType maps a propertyless object: a typed map when a value schema is
// declared, a free-form map otherwise.
func (t *Transformer) objectType(s *openapi3.Schema, at ir.Path, ptr string) ir.Type {
	if aps := s.AdditionalProperties.Schema; aps != nil {
		value := t.typeOf(aps, at.Child(ir.MapValueSegment()), ptr+"/additionalProperties")

		return ir.MapOf(value)
	}

	return ir.MapOf(ir.AnyType())
}

// stringType maps string schemas, honoring format hints. date-time wire
// encoding follows the transformer configuration.
func (t *Transformer) stringType(s *openapi3.Schema) ir.Type {
	switch s.Format {
	case "date-time":
		return ir.DateTimeType(t.cfg.DateTimeFormat)
	case "uri", "url":
		return ir.URLType()
	case "byte", "binary":
		return ir.BytesType()
	case "":
		return ir.StringType()
	default:
		// uuid, date, email, and friends stay strings with the hint kept.
		typ := ir.StringType()
		typ.Format = s.Format

		return typ
	}
}

func integerType(s *openapi3.Schema) ir.Type {
	return ir.IntegerType(s.Format)
}

// refType resolves a $ref into a reference type. Failed resolution becomes
// Unknown with a diagnostic on the referring location.
func (t *Transformer) refType(ref, ptr string) ir.Type {
	tgt, err := t.res.Resolve(ref)
	if err != nil {
		var re *ResolveError
		if errors.As(err, &re) {
			t.diag(re.Code, ptr, re.Reason)
		} else {
			t.diag(debug.DiagUnknownPointer, ptr, err.Error())
		}

		return ir.UnknownType()
	}

	if len(tgt.Segments) == 0 {
		return ir.RefTo(t.reg.Named(tgt.Name))
	}

	// The pointer lands inside a named schema. Composite targets become
	// (or already are) inline entries at the path the transformer derives
	// for that location; primitive targets are copied in place.
	at, ok := pathFromPointer(t.reg.Named(tgt.Name), tgt.Segments)
	if !ok {
		t.diag(debug.DiagUnknownPointer, ptr, "pointer targets an unaddressable subnode")

		return ir.UnknownType()
	}
	if tgt.Schema.Value != nil && isComposite(tgt.Schema.Value) {
		return ir.RefTo(t.inlineEntry(at, tgt.Schema, ref))
	}

	return t.typeOf(tgt.Schema, at, ref)
}

// pathFromPointer converts resolved pointer steps below a named schema into
// an inline path, using the same segment conventions the transformer uses
// while descending.
func pathFromPointer(root ir.TypeName, steps []string) (ir.Path, bool) {
	p := ir.NewPath(root.Key())
	for i := 0; i < len(steps); i++ {
		switch steps[i] {
		case "properties":
			i++
			if i >= len(steps) {
				return ir.Path{}, false
			}
			p = p.Child(ir.FieldSegment(steps[i]))
		case "items":
			p = p.Child(ir.ArrayItemSegment())
		case "additionalProperties":
			p = p.Child(ir.MapValueSegment())
		case "allOf", "anyOf", "oneOf":
			i++
			if i >= len(steps) {
				return ir.Path{}, false
			}
			idx, err := strconv.Atoi(steps[i])
			if err != nil {
				return ir.Path{}, false
			}
			p = p.Child(ir.VariantSegment(strconv.Itoa(idx + 1)))
		default:
			return ir.Path{}, false
		}
	}

	return p, true
}
