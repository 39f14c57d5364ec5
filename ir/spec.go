package ir

import (
	"github.com/talav/irgen/debug"
)

// Spec is the complete output of one transformation: an insertion-ordered
// mapping from schema identifier to schema, the ordered operation list, and
// the diagnostics accumulated along the way.
//
// The transformer populates a Spec through Put and AddOperation; once the
// transformation returns, the Spec must be treated as read-only. The graph
// and view layers hold indices into it for their whole lifetime.
type Spec struct {
	order   []TypeName
	schemas map[TypeName]*SchemaEntry

	// Operations in document order.
	Operations []Operation

	// Diagnostics accumulated during transformation. Advisory only; the
	// decision whether to proceed with emission is the caller's.
	Diagnostics debug.Diagnostics
}

// NewSpec returns an empty Spec.
func NewSpec() *Spec {
	return &Spec{schemas: make(map[TypeName]*SchemaEntry)}
}

// Put registers a schema entry. Insertion order is preserved and becomes
// the iteration order of Schemas. Re-registering an identifier replaces the
// entry in place without disturbing its position.
func (s *Spec) Put(entry *SchemaEntry) {
	if _, ok := s.schemas[entry.Name]; !ok {
		s.order = append(s.order, entry.Name)
	}
	s.schemas[entry.Name] = entry
}

// AddOperation appends an operation.
func (s *Spec) AddOperation(op Operation) {
	s.Operations = append(s.Operations, op)
}

// Schemas returns all schema identifiers in insertion order: named schemas
// in document order, then inline schemas in depth-first discovery order.
func (s *Spec) Schemas() []TypeName {
	out := make([]TypeName, len(s.order))
	copy(out, s.order)

	return out
}

// Len returns the number of registered schemas.
func (s *Spec) Len() int {
	return len(s.order)
}

// Schema looks up an entry by identifier. Lookup is total only for
// identifiers the Spec itself yielded.
func (s *Spec) Schema(name TypeName) (*SchemaEntry, bool) {
	e, ok := s.schemas[name]

	return e, ok
}

// Operation returns the operation with the given identifier, if present.
func (s *Spec) Operation(id string) (*Operation, bool) {
	for i := range s.Operations {
		if s.Operations[i].ID == id {
			return &s.Operations[i], true
		}
	}

	return nil, false
}
