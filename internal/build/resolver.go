package build

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-openapi/jsonpointer"

	"github.com/talav/irgen/debug"
)

// maxRefHops bounds pure-$ref chains (a $ref whose target is itself a bare
// $ref). Exceeding the bound is reported as cyclic resolution.
const maxRefHops = 32

// ResolveError describes a failed $ref resolution. The code matches the
// diagnostic taxonomy so callers can downgrade resolution failures into
// diagnostics on the affected field.
type ResolveError struct {
	Code    debug.Code
	Pointer string
	Reason  string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %q: %s", e.Pointer, e.Reason)
}

// Target is the outcome of a successful resolution.
type Target struct {
	// Name is the component name the pointer descends from. When Segments
	// is empty the pointer targets the named component itself.
	Name string

	// Segments locate an inline subnode below the named component, in
	// document-pointer terms. Empty when the pointer targets the
	// component itself.
	Segments []string

	// Schema is the resolved schema node.
	Schema *openapi3.SchemaRef
}

// Resolver follows local $ref pointers to schema nodes within one parsed
// document. External URLs are out of scope.
type Resolver struct {
	doc *openapi3.T
}

// NewResolver creates a resolver over the given document.
func NewResolver(doc *openapi3.T) *Resolver {
	return &Resolver{doc: doc}
}

// Resolve follows ref to its target, collapsing pure-$ref chains along the
// way. Self-referential schemas (a schema referencing itself within a
// property) are not an error here; those cycles are the graph's concern.
func (r *Resolver) Resolve(ref string) (*Target, error) {
	tgt, err := r.resolveOnce(ref)
	if err != nil {
		return nil, err
	}

	// Collapse chains of bare $ref nodes.
	hops := 0
	for tgt.Schema != nil && tgt.Schema.Ref != "" && isBareRef(tgt.Schema) {
		hops++
		if hops > maxRefHops {
			return nil, &ResolveError{
				Code:    debug.DiagCyclicResolution,
				Pointer: ref,
				Reason:  fmt.Sprintf("$ref chain exceeds %d hops", maxRefHops),
			}
		}
		next, err := r.resolveOnce(tgt.Schema.Ref)
		if err != nil {
			return nil, err
		}
		tgt = next
	}

	return tgt, nil
}

// resolveOnce evaluates one pointer without chain collapsing.
func (r *Resolver) resolveOnce(ref string) (*Target, error) {
	frag, ok := strings.CutPrefix(ref, "#")
	if !ok {
		// Only document-local fragments are supported.
		if strings.Contains(ref, "://") || !strings.HasPrefix(ref, "/") {
			return nil, &ResolveError{
				Code:    debug.DiagMalformedPointer,
				Pointer: ref,
				Reason:  "only local #/ references are supported",
			}
		}
		frag = ref
	}

	ptr, err := jsonpointer.New(frag)
	if err != nil {
		return nil, &ResolveError{
			Code:    debug.DiagMalformedPointer,
			Pointer: ref,
			Reason:  err.Error(),
		}
	}

	tokens := ptr.DecodedTokens()
	if len(tokens) < 3 || tokens[0] != "components" || tokens[1] != "schemas" {
		return nil, &ResolveError{
			Code:    debug.DiagUnknownPointer,
			Pointer: ref,
			Reason:  "pointer does not target /components/schemas",
		}
	}

	if r.doc.Components == nil {
		return nil, &ResolveError{
			Code:    debug.DiagUnknownPointer,
			Pointer: ref,
			Reason:  "document has no components",
		}
	}
	name := tokens[2]
	root, ok := r.doc.Components.Schemas[name]
	if !ok {
		return nil, &ResolveError{
			Code:    debug.DiagUnknownPointer,
			Pointer: ref,
			Reason:  fmt.Sprintf("no schema named %q", name),
		}
	}

	rest := tokens[3:]
	node, err := walkSchema(root, rest, ref)
	if err != nil {
		return nil, err
	}

	return &Target{Name: name, Segments: rest, Schema: node}, nil
}

// walkSchema descends from a schema node through the remaining pointer
// tokens. Supported steps mirror the subnodes the transformer can register:
// properties/<p>, items, additionalProperties, allOf/<i>, anyOf/<i>,
// oneOf/<i>.
func walkSchema(sr *openapi3.SchemaRef, tokens []string, ref string) (*openapi3.SchemaRef, error) {
	cur := sr
	for i := 0; i < len(tokens); i++ {
		if cur == nil || cur.Value == nil {
			return nil, &ResolveError{
				Code:    debug.DiagUnknownPointer,
				Pointer: ref,
				Reason:  "pointer descends below an unresolved node",
			}
		}
		s := cur.Value

		switch tokens[i] {
		case "properties":
			i++
			if i >= len(tokens) {
				return nil, &ResolveError{Code: debug.DiagUnknownPointer, Pointer: ref, Reason: "dangling properties step"}
			}
			next, ok := s.Properties[tokens[i]]
			if !ok {
				return nil, &ResolveError{
					Code:    debug.DiagUnknownPointer,
					Pointer: ref,
					Reason:  fmt.Sprintf("no property %q", tokens[i]),
				}
			}
			cur = next
		case "items":
			if s.Items == nil {
				return nil, &ResolveError{Code: debug.DiagUnknownPointer, Pointer: ref, Reason: "schema has no items"}
			}
			cur = s.Items
		case "additionalProperties":
			if s.AdditionalProperties.Schema == nil {
				return nil, &ResolveError{Code: debug.DiagUnknownPointer, Pointer: ref, Reason: "schema has no additionalProperties schema"}
			}
			cur = s.AdditionalProperties.Schema
		case "allOf", "anyOf", "oneOf":
			branches := compositionBranches(s, tokens[i])
			i++
			if i >= len(tokens) {
				return nil, &ResolveError{Code: debug.DiagUnknownPointer, Pointer: ref, Reason: "dangling composition step"}
			}
			idx, err := strconv.Atoi(tokens[i])
			if err != nil || idx < 0 || idx >= len(branches) {
				return nil, &ResolveError{
					Code:    debug.DiagUnknownPointer,
					Pointer: ref,
					Reason:  fmt.Sprintf("composition index %q out of range", tokens[i]),
				}
			}
			cur = branches[idx]
		default:
			return nil, &ResolveError{
				Code:    debug.DiagUnknownPointer,
				Pointer: ref,
				Reason:  fmt.Sprintf("unsupported pointer step %q", tokens[i]),
			}
		}
	}

	return cur, nil
}

func compositionBranches(s *openapi3.Schema, kind string) openapi3.SchemaRefs {
	switch kind {
	case "allOf":
		return s.AllOf
	case "anyOf":
		return s.AnyOf
	default:
		return s.OneOf
	}
}

// isBareRef reports whether the node is a pure $ref with no schema content
// of its own, i.e. a link that must be followed rather than a schema.
func isBareRef(sr *openapi3.SchemaRef) bool {
	if sr.Ref == "" {
		return false
	}
	if sr.Value == nil {
		return true
	}
	s := sr.Value

	return s.Type == nil && len(s.Properties) == 0 && len(s.AllOf) == 0 &&
		len(s.AnyOf) == 0 && len(s.OneOf) == 0 && s.Items == nil &&
		len(s.Enum) == 0 && s.AdditionalProperties.Schema == nil
}
