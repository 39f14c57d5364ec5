package graph

import "github.com/talav/irgen/ir"

// computeDerivable runs the equality and default fixed points. Both start
// optimistic (every schema admits the property) and strip schemas whose
// shape rules the property out, so a pure cycle keeps a property as long as
// every path out of the cycle admits it.
func (g *Graph) computeDerivable() {
	g.eq = g.fixedPoint(g.entryAdmitsEquality)
	g.def = g.fixedPoint(g.entryAdmitsDefault)
}

// fixedPoint iterates an admits predicate over all schema nodes until
// stable. The predicate consults the current hypothesis for referenced
// schemas, so information only ever flows from true to false.
func (g *Graph) fixedPoint(admits func(*ir.SchemaEntry, []bool) bool) []bool {
	state := make([]bool, len(g.nodes))
	for i := range state {
		state[i] = true
	}

	for changed := true; changed; {
		changed = false
		for _, name := range g.spec.Schemas() {
			v, ok := g.node(SchemaNode(name))
			if !ok || !state[v] {
				continue
			}
			entry, ok := g.spec.Schema(name)
			if !ok {
				continue
			}
			if !admits(entry, state) {
				state[v] = false
				changed = true
			}
		}
	}

	return state
}

// entryAdmitsEquality decides whether a schema admits equality and hash:
// no floating-point descendants, no Unknown descendants, and maps only
// when the value type admits them.
func (g *Graph) entryAdmitsEquality(entry *ir.SchemaEntry, state []bool) bool {
	switch entry.Kind {
	case ir.SchemaStruct:
		if entry.Struct == nil {
			return true
		}
		for i := range entry.Struct.Fields {
			if !g.typeAdmitsEquality(entry.Struct.Fields[i].Type, state) {
				return false
			}
		}

		return true
	case ir.SchemaTagged:
		if entry.Tagged == nil {
			return true
		}
		for i := range entry.Tagged.Variants {
			if !g.typeAdmitsEquality(entry.Tagged.Variants[i].Type, state) {
				return false
			}
		}

		return true
	case ir.SchemaUntagged:
		if entry.Untagged == nil {
			return true
		}
		for i := range entry.Untagged.Variants {
			if !g.typeAdmitsEquality(entry.Untagged.Variants[i].Type, state) {
				return false
			}
		}

		return true
	case ir.SchemaEnum:
		return true
	case ir.SchemaAlias:
		if entry.Alias == nil {
			return true
		}

		return g.typeAdmitsEquality(*entry.Alias, state)
	default:
		return false
	}
}

func (g *Graph) typeAdmitsEquality(t ir.Type, state []bool) bool {
	switch t.Kind {
	case ir.KindNumber, ir.KindUnknown, ir.KindAny:
		return false
	case ir.KindArray, ir.KindMap, ir.KindNullable:
		if t.Elem == nil {
			return false
		}

		return g.typeAdmitsEquality(*t.Elem, state)
	case ir.KindRef:
		v, ok := g.node(SchemaNode(t.Ref))
		if !ok {
			return false
		}

		return state[v]
	default:
		return true
	}
}

// entryAdmitsDefault decides whether a schema admits a natural default: a
// struct whose fields are all optional or defaultable, or an alias to a
// defaultable type. Unions and enums have no natural default.
func (g *Graph) entryAdmitsDefault(entry *ir.SchemaEntry, state []bool) bool {
	switch entry.Kind {
	case ir.SchemaStruct:
		if entry.Struct == nil {
			return true
		}
		for i := range entry.Struct.Fields {
			f := &entry.Struct.Fields[i]
			if !f.Required {
				continue
			}
			if !g.typeAdmitsDefault(f.Type, state) {
				return false
			}
		}

		return true
	case ir.SchemaAlias:
		if entry.Alias == nil {
			return true
		}

		return g.typeAdmitsDefault(*entry.Alias, state)
	default:
		return false
	}
}

func (g *Graph) typeAdmitsDefault(t ir.Type, state []bool) bool {
	switch t.Kind {
	case ir.KindString, ir.KindInteger, ir.KindNumber, ir.KindBoolean, ir.KindBytes:
		return true
	case ir.KindArray, ir.KindMap, ir.KindNullable:
		return true
	case ir.KindRef:
		v, ok := g.node(SchemaNode(t.Ref))
		if !ok {
			return false
		}

		return state[v]
	default:
		// DateTime, URL, Any, and Unknown have no natural default.
		return false
	}
}

// CanDeriveEquality reports whether the named schema admits equality and
// hash.
func (g *Graph) CanDeriveEquality(name ir.TypeName) bool {
	v, ok := g.node(SchemaNode(name))
	if !ok {
		return false
	}

	return g.eq[v]
}

// CanDeriveDefault reports whether the named schema admits a natural
// default value.
func (g *Graph) CanDeriveDefault(name ir.TypeName) bool {
	v, ok := g.node(SchemaNode(name))
	if !ok {
		return false
	}

	return g.def[v]
}
