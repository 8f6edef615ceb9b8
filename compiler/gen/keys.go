package gen

import "github.com/syssam/aggregen/compiler/load"

// keysOf resolves the key set of a: the parent's key set first, then the
// locally flagged key attributes in declaration order. A key reference
// contributes the members mirroring the target's key set. Termination is
// guaranteed by the key cycle check that runs before classification.
func (c *classifier) keysOf(a *Aggregate) []MemberID {
	if c.keyed[a.ID] {
		return a.keys
	}
	var keys []MemberID
	if !a.IsRoot() {
		parent := c.g.aggregates[c.g.edges[a.Parent].From]
		keys = append(keys, c.keysOf(parent)...)
	}
	for i, attr := range a.schema.Attributes {
		if !attr.Key {
			continue
		}
		ids := c.attribute(a, i)
		if attrKind(attr) == load.KindRef {
			keys = append(keys, ids[1:]...)
		} else {
			keys = append(keys, ids[0])
		}
	}
	a.keys = keys
	c.keyed[a.ID] = true
	return keys
}

// namesOf resolves the display-name designees of a: the locally flagged
// value members, or the key set when none is flagged.
func (c *classifier) namesOf(a *Aggregate) []MemberID {
	if c.named[a.ID] {
		return a.names
	}
	var names []MemberID
	for _, id := range c.membersOf(a) {
		m := c.g.members[id]
		if m.Display && m.Kind != KindRefMirroredKey && m.IsValue() {
			names = append(names, id)
		}
	}
	if len(names) == 0 {
		names = c.keysOf(a)
	}
	a.names = names
	c.named[a.ID] = true
	return names
}

// KeysOf returns the resolved key set of a. Parent-contributed keys come
// first, then local keys in declaration order. Entries are Scalar or
// RefMirroredKey members; the slice is never empty and its order is
// stable, as keys are serialized positionally.
func (g *Graph) KeysOf(a *Aggregate) []*Member {
	return g.resolveIDs(a.keys)
}

// NamesOf returns the display-name designees of a. Aggregates without
// flagged display members fall back to their key set.
func (g *Graph) NamesOf(a *Aggregate) []*Member {
	return g.resolveIDs(a.names)
}

// IsKey reports if m belongs to the resolved key set of a.
func (g *Graph) IsKey(a *Aggregate, m *Member) bool {
	for _, id := range a.keys {
		if id == m.ID {
			return true
		}
	}
	return false
}

// Mirrored follows a RefMirroredKey chain to the scalar whose value it
// mirrors. Other members are returned unchanged.
func (g *Graph) Mirrored(m *Member) *Member {
	for m.Kind == KindRefMirroredKey {
		m = g.members[m.Source]
	}
	return m
}

func (g *Graph) resolveIDs(ids []MemberID) []*Member {
	ms := make([]*Member, len(ids))
	for i, id := range ids {
		ms[i] = g.members[id]
	}
	return ms
}
