package gen

import (
	"github.com/syssam/aggregen/compiler/load"
)

// MemberKind is the closed set of member variants.
type MemberKind uint8

// Member kinds.
const (
	// KindScalar is a leaf value.
	KindScalar MemberKind = iota + 1
	// KindRef points to another aggregate through a reference edge and
	// carries the key values of the target.
	KindRef
	// KindParent is the synthetic back-pointer of a non-root aggregate.
	KindParent
	// KindChild is a singular nested aggregate.
	KindChild
	// KindChildren is a nested collection.
	KindChildren
	// KindVariation is the discriminant of a tagged union.
	KindVariation
	// KindVariationItem is one arm of a tagged union.
	KindVariationItem
	// KindRefMirroredKey mirrors one key column of a referenced aggregate.
	KindRefMirroredKey
)

// String returns the kind name.
func (k MemberKind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindRef:
		return "Ref"
	case KindParent:
		return "Parent"
	case KindChild:
		return "Child"
	case KindChildren:
		return "Children"
	case KindVariation:
		return "Variation"
	case KindVariationItem:
		return "VariationItem"
	case KindRefMirroredKey:
		return "RefMirroredKey"
	default:
		return "Unknown"
	}
}

// Member is a named attribute of an aggregate. A single struct carries
// every variant; Kind selects which of the variant fields are set.
type Member struct {
	attr *load.Attribute
	// ID is the position of the member in the graph arena.
	ID   MemberID
	Kind MemberKind
	Name string
	// Declarer is the aggregate whose declaration produced the member.
	Declarer AggregateID
	// Owner is the aggregate the value is read from. It differs from the
	// Declarer only for RefMirroredKey members, whose value lives on the
	// aggregate declaring the mirrored scalar.
	Owner AggregateID
	// Type is the value type of Scalar and RefMirroredKey members.
	Type string
	// Key, Display and Required hold the attribute flags.
	Key      bool
	Display  bool
	Required bool
	// Edge is the edge the member stands for: the reference edge of Ref
	// and RefMirroredKey, the ownership edge of Child, Children and
	// VariationItem, and the parent edge of Parent.
	Edge EdgeID
	// Source is the target key member mirrored by a RefMirroredKey.
	Source MemberID
	// Variation is the switch member of a VariationItem.
	Variation MemberID
	// Items are the arms of a Variation.
	Items []MemberID
	// ItemKey is the discriminant value selecting a VariationItem.
	ItemKey int
}

// IsValue reports if the member holds a value, as opposed to a structural
// member that leads to another aggregate.
func (m *Member) IsValue() bool {
	switch m.Kind {
	case KindScalar, KindRef, KindVariation, KindRefMirroredKey:
		return true
	}
	return false
}

// Comment returns the schema comment of the member.
func (m *Member) Comment() string {
	if m.attr == nil {
		return ""
	}
	return m.attr.Comment
}

// String returns the member name.
func (m *Member) String() string { return m.Name }

// attrKey identifies one raw attribute of one aggregate.
type attrKey struct {
	agg  AggregateID
	attr int
}

// classifier derives members and key sets. It runs once while the graph
// is built; every result is memoized in the graph arenas.
type classifier struct {
	g *Graph
	// attr maps a raw attribute to the members it produced.
	attr map[attrKey][]MemberID
	// edges maps a ref or owning attribute to the edges it declared.
	edges map[attrKey][]EdgeID
	keyed map[AggregateID]bool
	named map[AggregateID]bool
	typed map[AggregateID]bool
}

func newClassifier(g *Graph, edges map[attrKey][]EdgeID) *classifier {
	return &classifier{
		g:     g,
		attr:  make(map[attrKey][]MemberID),
		edges: edges,
		keyed: make(map[AggregateID]bool),
		named: make(map[AggregateID]bool),
		typed: make(map[AggregateID]bool),
	}
}

func (c *classifier) add(m *Member) *Member {
	m.ID = MemberID(len(c.g.members))
	if m.Owner == NoAggregate {
		m.Owner = m.Declarer
	}
	c.g.members = append(c.g.members, m)
	return m
}

func (c *classifier) newMember(a *Aggregate, kind MemberKind, name string, attr *load.Attribute) *Member {
	m := &Member{
		attr:      attr,
		Kind:      kind,
		Name:      name,
		Declarer:  a.ID,
		Owner:     NoAggregate,
		Edge:      NoEdge,
		Source:    NoMember,
		Variation: NoMember,
	}
	if attr != nil {
		m.Type = attr.Type
		m.Key = attr.Key
		m.Display = attr.Display
		m.Required = attr.Required
	}
	return m
}

// attribute returns the members produced by the i-th attribute of a,
// creating them on first use.
func (c *classifier) attribute(a *Aggregate, i int) []MemberID {
	k := attrKey{agg: a.ID, attr: i}
	if ids, ok := c.attr[k]; ok {
		return ids
	}
	attr := a.schema.Attributes[i]
	edges := c.edges[k]
	var ids []MemberID
	switch attrKind(attr) {
	case load.KindScalar:
		ids = append(ids, c.add(c.newMember(a, KindScalar, attr.Name, attr)).ID)
	case load.KindRef:
		ref := c.newMember(a, KindRef, attr.Name, attr)
		ref.Edge = edges[0]
		ids = append(ids, c.add(ref).ID)
		c.g.edges[ref.Edge].Member = ref.ID
		target := c.g.aggregates[c.g.edges[ref.Edge].To]
		for _, kid := range c.keysOf(target) {
			km := c.g.members[kid]
			mk := c.newMember(a, KindRefMirroredKey, attr.Name+"_"+km.Name, nil)
			mk.Type = km.Type
			mk.Key = attr.Key
			mk.Required = attr.Required
			mk.Edge = ref.Edge
			mk.Source = km.ID
			mk.Owner = km.Owner
			mk.attr = attr
			ids = append(ids, c.add(mk).ID)
		}
	case load.KindChild, load.KindChildren:
		kind := KindChild
		if attrKind(attr) == load.KindChildren {
			kind = KindChildren
		}
		m := c.add(c.newMember(a, kind, attr.Name, attr))
		m.Edge = edges[0]
		c.g.edges[m.Edge].Member = m.ID
		ids = append(ids, m.ID)
	case load.KindVariation:
		sw := c.add(c.newMember(a, KindVariation, attr.Name, attr))
		ids = append(ids, sw.ID)
		for j, it := range attr.Items {
			im := c.add(c.newMember(a, KindVariationItem, it.Name, nil))
			im.attr = attr
			im.Edge = edges[j]
			im.Variation = sw.ID
			im.ItemKey = it.Key
			c.g.edges[im.Edge].Member = im.ID
			sw.Items = append(sw.Items, im.ID)
			ids = append(ids, im.ID)
		}
	}
	c.attr[k] = ids
	return ids
}

// membersOf classifies the members of a: the synthetic Parent member
// first for non-roots, then every attribute in declaration order.
func (c *classifier) membersOf(a *Aggregate) []MemberID {
	if c.typed[a.ID] {
		return a.Members
	}
	var ids []MemberID
	if !a.IsRoot() {
		p := c.add(c.newMember(a, KindParent, c.g.cfg.ParentField, nil))
		p.Edge = a.Parent
		ids = append(ids, p.ID)
	}
	for i := range a.schema.Attributes {
		ids = append(ids, c.attribute(a, i)...)
	}
	a.Members = ids
	c.typed[a.ID] = true
	return ids
}

// attrKind returns the kind of a raw attribute, defaulting to scalar.
func attrKind(a *load.Attribute) string {
	if a.Kind == "" {
		return load.KindScalar
	}
	return a.Kind
}
