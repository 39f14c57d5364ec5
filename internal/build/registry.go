package build

import (
	"strconv"

	"github.com/talav/irgen/ir"
)

// reservedNames can never be handed out as schema identifiers. They collide
// with identifiers the engine itself introduces.
var reservedNames = map[string]struct{}{
	"": {},
}

// Registry assigns every schema in the document a unique, stable identifier.
// Named schemas keep their document name, uniquified by a deterministic
// numeric suffix when the name is reserved or already taken. Inline schemas
// are identified by their path; the path key is unique by construction.
//
// Assignment is deterministic: the same document registered in the same
// order yields the same identifiers.
type Registry struct {
	taken map[string]struct{}
	named map[string]ir.TypeName
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		taken: make(map[string]struct{}),
		named: make(map[string]ir.TypeName),
	}
}

// Named returns the identifier for a document schema name, assigning one on
// first use. Repeated calls with the same document name return the same
// identifier.
func (r *Registry) Named(docName string) ir.TypeName {
	if n, ok := r.named[docName]; ok {
		return n
	}

	name := r.uniquify(docName)
	tn := ir.Named(name)
	r.taken[name] = struct{}{}
	r.named[docName] = tn

	return tn
}

// Inline returns the identifier for an inline path.
func (r *Registry) Inline(p ir.Path) ir.TypeName {
	tn := ir.InlineName(p)
	r.taken[tn.Key()] = struct{}{}

	return tn
}

// uniquify appends the smallest numeric suffix (starting at 2) that makes
// the name unused and unreserved. The scheme is deterministic: the first
// colliding name gets "2", the next "3", and so on.
func (r *Registry) uniquify(name string) string {
	if !r.isTaken(name) {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !r.isTaken(candidate) {
			return candidate
		}
	}
}

func (r *Registry) isTaken(name string) bool {
	if _, ok := reservedNames[name]; ok {
		return true
	}
	_, ok := r.taken[name]

	return ok
}
