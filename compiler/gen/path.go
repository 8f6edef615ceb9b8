package gen

import (
	"fmt"

	"github.com/syssam/aggregen"
)

// SegmentKind is the kind of a path segment.
type SegmentKind uint8

// Segment kinds.
const (
	// SegmentField selects a named relation or member.
	SegmentField SegmentKind = iota + 1
	// SegmentArrayIndex selects one element of a collection through the
	// named loop variable.
	SegmentArrayIndex
	// SegmentWrapper is a projection-specific nesting level, rendered as a
	// field selection.
	SegmentWrapper
)

// String returns the kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentField:
		return "Field"
	case SegmentArrayIndex:
		return "ArrayIndex"
	case SegmentWrapper:
		return "Wrapper"
	default:
		return "Unknown"
	}
}

// Segment is one step of a resolved path.
type Segment struct {
	Kind SegmentKind
	Name string
}

// Field returns a field segment.
func Field(name string) Segment { return Segment{Kind: SegmentField, Name: name} }

// ArrayIndex returns an array index segment.
func ArrayIndex(name string) Segment { return Segment{Kind: SegmentArrayIndex, Name: name} }

// Wrapper returns a projection wrapper segment.
func Wrapper(name string) Segment { return Segment{Kind: SegmentWrapper, Name: name} }

// Path is the ordered segment chain reaching a member value.
type Path []Segment

// Indices returns the index variable names consumed by the path.
func (p Path) Indices() []string {
	var names []string
	for _, s := range p {
		if s.Kind == SegmentArrayIndex {
			names = append(names, s.Name)
		}
	}
	return names
}

// Resolve returns the path reaching m from entry under the projection p.
//
// Up-crossings emit the parent field. Down-crossings emit the relation
// name, followed by an array index when a collection is entered, except
// for the last edge of the path unless p.TerminalIndex is set. Index
// names are taken from indexNames in traversal order. Reference crossings
// emit the relation wrapper of the current scope and the relation name.
// Value-bearing members end with the leaf wrapper of their scope and the
// member name; structural members end at their edge.
//
// A RefMirroredKey resolves through its reference to the key member of
// the target aggregate.
func (g *Graph) Resolve(m *Member, entry *Aggregate, p Policy, indexNames []string) (Path, error) {
	steps, leaf, ok := g.memberRoute(m, entry.ID)
	if !ok {
		return nil, g.pathError(aggregen.ErrNotReachable, m, entry, p, "")
	}
	var (
		path    = make(Path, 0, len(steps)+2)
		used    int
		crossed bool
	)
	// A walk leaves the entry tree with its first reference crossing and
	// never returns to it.
	inTree := func(id AggregateID) bool {
		return !crossed && g.aggregates[id].root == entry.root
	}
	for i, st := range steps {
		e := g.edges[st.Edge]
		switch {
		case st.Up:
			path = append(path, Field(g.cfg.ParentField))
		case e.IsReference():
			if w := p.wrappers(inTree(e.From)).Relation; w != "" {
				path = append(path, Wrapper(w))
			}
			path = append(path, Field(e.Name))
			crossed = true
		default:
			path = append(path, Field(e.Name))
			if !p.indexes(steps, i, e) {
				continue
			}
			if used == len(indexNames) {
				return nil, g.pathError(aggregen.ErrMissingIndex, m, entry, p,
					fmt.Sprintf("crossing %s needs index #%d, got %d names", e.Name, used+1, len(indexNames)))
			}
			path = append(path, ArrayIndex(indexNames[used]))
			used++
		}
	}
	if leaf != nil {
		if w := p.wrappers(inTree(leaf.Declarer)).Leaf; w != "" {
			path = append(path, Wrapper(w))
		}
		path = append(path, Field(leaf.Name))
	}
	return path, nil
}

// MustResolve is like Resolve but panics on error. Path errors are
// programming errors of the caller.
func (g *Graph) MustResolve(m *Member, entry *Aggregate, p Policy, indexNames ...string) Path {
	path, err := g.Resolve(m, entry, p, indexNames)
	if err != nil {
		panic(err)
	}
	return path
}

// Route returns the edge crossings Resolve follows to reach m from entry.
func (g *Graph) Route(m *Member, entry *Aggregate) ([]Step, error) {
	steps, _, ok := g.memberRoute(m, entry.ID)
	if !ok {
		return nil, g.pathError(aggregen.ErrNotReachable, m, entry, Policy{}, "")
	}
	return steps, nil
}

// IndexCount returns the number of index names Resolve consumes for m
// from entry under p.
func (g *Graph) IndexCount(m *Member, entry *Aggregate, p Policy) (int, error) {
	steps, _, ok := g.memberRoute(m, entry.ID)
	if !ok {
		return 0, g.pathError(aggregen.ErrNotReachable, m, entry, p, "")
	}
	n := 0
	for i, st := range steps {
		if e := g.edges[st.Edge]; !st.Up && p.indexes(steps, i, e) {
			n++
		}
	}
	return n, nil
}

// indexes reports if crossing the i-th step emits an array index.
func (p Policy) indexes(steps []Step, i int, e *Edge) bool {
	terminal := i == len(steps)-1
	return e.IsCollection() && (!terminal || p.TerminalIndex)
}

// memberRoute returns the crossings from the entry to m and the member
// whose name ends the path, or nil for structural members.
func (g *Graph) memberRoute(m *Member, from AggregateID) ([]Step, *Member, bool) {
	steps, ok := g.route(from, m.Declarer)
	if !ok {
		return nil, nil, false
	}
	switch m.Kind {
	case KindScalar, KindRef, KindVariation:
		return steps, m, true
	case KindChild, KindChildren, KindVariationItem:
		return append(steps, Step{Edge: m.Edge}), nil, true
	case KindParent:
		return append(steps, Step{Edge: m.Edge, Up: true}), nil, true
	case KindRefMirroredKey:
		steps = append(steps, Step{Edge: m.Edge})
		rest, leaf, ok := g.memberRoute(g.members[m.Source], g.edges[m.Edge].To)
		if !ok {
			return nil, nil, false
		}
		return append(steps, rest...), leaf, true
	default:
		panic(fmt.Sprintf("gen: unexpected member kind %v", m.Kind))
	}
}

func (g *Graph) pathError(err error, m *Member, entry *Aggregate, p Policy, detail string) error {
	return &aggregen.PathError{
		Err:    err,
		Member: g.QualifiedName(m),
		Entry:  entry.Name,
		Policy: p.String(),
		Detail: detail,
	}
}
