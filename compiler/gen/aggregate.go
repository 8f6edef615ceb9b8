package gen

import (
	"fmt"

	"github.com/syssam/aggregen/compiler/load"
)

// Identifiers index the arenas of a Graph. They are stable for a given
// schema input: the same declarations always yield the same ids.
type (
	AggregateID int
	EdgeID      int
	MemberID    int
)

// Sentinel identifiers.
const (
	NoAggregate AggregateID = -1
	NoEdge      EdgeID      = -1
	NoMember    MemberID    = -1
)

// The following types are used by the templates that consume the graph.
type (
	// Aggregate is one entity/record type of the schema. Aggregates are
	// created while the graph is built and never change afterwards.
	Aggregate struct {
		schema *load.Schema
		// ID is the position of the aggregate in the graph arena.
		ID AggregateID
		// Name holds the aggregate name as declared in the schema.
		Name string
		// DisplayName is the human readable name.
		DisplayName string
		// ReadOnly aggregates are never edited by generated screens.
		ReadOnly bool
		// Independent aggregates have a lifecycle of their own even when
		// owned by a parent.
		Independent bool
		// Parent holds the ownership edge from the parent, or NoEdge for
		// roots.
		Parent EdgeID
		// Children holds the ownership edges to owned aggregates, in
		// declaration order.
		Children []EdgeID
		// Refs holds the reference edges declared by this aggregate, in
		// declaration order.
		Refs []EdgeID
		// Members holds the classified members in declaration order.
		Members []MemberID

		root  AggregateID
		depth int
		keys  []MemberID
		names []MemberID
	}

	// Edge connects two aggregates. It is a (From, To, Kind) triple
	// plus the relation name used when a path crosses it.
	Edge struct {
		ID   EdgeID
		Kind EdgeKind
		// Multiplicity of the owned side. Set for ParentChild edges only.
		Multiplicity Multiplicity
		From, To     AggregateID
		// Name is the relation name: the declaring attribute, or the item
		// name for variation arms.
		Name string
		// Member is the member of From that declares this edge.
		Member MemberID
	}

	// Step is one edge crossing of a route. Up is set when a ParentChild
	// edge is crossed from the child to the parent.
	Step struct {
		Edge EdgeID
		Up   bool
	}
)

// IsRoot reports if the aggregate has no owner.
func (a *Aggregate) IsRoot() bool { return a.Parent == NoEdge }

// Depth returns the number of ownership edges between the aggregate and
// its root.
func (a *Aggregate) Depth() int { return a.depth }

// Comment returns the schema comment of the aggregate.
func (a *Aggregate) Comment() string {
	if a.schema == nil {
		return ""
	}
	return a.schema.Comment
}

// Label returns the snake_case label of the aggregate.
func (a *Aggregate) Label() string { return snake(a.Name) }

// String returns the aggregate name.
func (a *Aggregate) String() string { return a.Name }

// EdgeKind is the kind of an edge.
type EdgeKind uint8

// Edge kinds.
const (
	// EdgeParentChild connects an owner to an aggregate it owns.
	EdgeParentChild EdgeKind = iota + 1
	// EdgeReference points from an aggregate to another by key.
	EdgeReference
)

// String returns the kind name.
func (k EdgeKind) String() string {
	switch k {
	case EdgeParentChild:
		return "ParentChild"
	case EdgeReference:
		return "Reference"
	default:
		return "Unknown"
	}
}

// Multiplicity of the owned side of a ParentChild edge.
type Multiplicity uint8

// Multiplicities.
const (
	// One is a singular nested aggregate.
	One Multiplicity = iota + 1
	// Many is a nested collection.
	Many
	// Variant is one arm of a tagged union.
	Variant
)

// String returns the multiplicity name.
func (m Multiplicity) String() string {
	switch m {
	case One:
		return "Child"
	case Many:
		return "Children"
	case Variant:
		return "VariationItem"
	default:
		return "None"
	}
}

// IsReference reports if the edge is a reference edge.
func (e *Edge) IsReference() bool { return e.Kind == EdgeReference }

// IsCollection reports if crossing the edge downwards enters a collection.
func (e *Edge) IsCollection() bool {
	return e.Kind == EdgeParentChild && e.Multiplicity == Many
}

// String returns a short description of the edge using arena ids,
// e.g. "0.Lines -[ParentChild]-> 1".
func (e *Edge) String() string {
	return fmt.Sprintf("%d.%s -[%s]-> %d", e.From, e.Name, e.Kind, e.To)
}
