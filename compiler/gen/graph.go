package gen

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/syssam/aggregen"
	"github.com/syssam/aggregen/compiler/load"
	"github.com/syssam/aggregen/internal/graphcycle"
)

// Graph is the immutable aggregate graph: an arena of aggregates, edges
// and members addressed by id. All navigation is id-indexed lookup.
// A Graph is safe for concurrent use once NewGraph returns.
type Graph struct {
	cfg        *Config
	aggregates []*Aggregate
	edges      []*Edge
	members    []*Member
	byName     map[string]AggregateID
}

// NewGraph builds and validates the aggregate graph of the given schemas.
// It fails with a *aggregen.SchemaError when ownership edges do not form
// a forest (ErrCycle), names collide (ErrDuplicateName), a relation names
// an undeclared aggregate (ErrDanglingReference), an aggregate that needs
// a key declares none (ErrMissingKey), or key resolution does not
// terminate (ErrKeyCycle). No graph is returned on failure.
func NewGraph(c *Config, schemas ...*load.Schema) (*Graph, error) {
	cfg := c.normalize()
	g := &Graph{
		cfg:    cfg,
		byName: make(map[string]AggregateID, len(schemas)),
	}
	b := &builder{g: g, edges: make(map[attrKey][]EdgeID)}
	for _, step := range []func() error{
		func() error { return b.addAggregates(schemas) },
		b.link,
		b.checkOwnership,
		b.checkNames,
		b.checkKeys,
		b.classify,
	} {
		if err := step(); err != nil {
			return nil, err
		}
	}
	cfg.Logger.Debug("aggregate graph built",
		"aggregates", len(g.aggregates),
		"edges", len(g.edges),
		"members", len(g.members),
	)
	return g, nil
}

// MustNewGraph is like NewGraph but panics on error.
func MustNewGraph(c *Config, schemas ...*load.Schema) *Graph {
	g, err := NewGraph(c, schemas...)
	if err != nil {
		panic(err)
	}
	return g
}

// builder holds the transient state of NewGraph.
type builder struct {
	g     *Graph
	edges map[attrKey][]EdgeID
	// owner records the owning attribute of each owned aggregate, for
	// error messages.
	owner map[AggregateID]string
}

func (b *builder) addAggregates(schemas []*load.Schema) error {
	for _, s := range schemas {
		if s == nil {
			continue
		}
		if err := s.Check(); err != nil {
			return err
		}
		if _, ok := b.g.byName[s.Name]; ok {
			return aggregen.NewSchemaError(aggregen.KindDuplicateName, s.Name, "", "aggregate declared more than once")
		}
		a := &Aggregate{
			schema:      s,
			ID:          AggregateID(len(b.g.aggregates)),
			Name:        s.Name,
			DisplayName: s.DisplayName,
			ReadOnly:    s.ReadOnly,
			Independent: s.Independent,
			Parent:      NoEdge,
			root:        NoAggregate,
		}
		if a.DisplayName == "" {
			a.DisplayName = a.Name
		}
		b.g.byName[a.Name] = a.ID
		b.g.aggregates = append(b.g.aggregates, a)
	}
	return nil
}

// link creates the ownership and reference edges in declaration order.
func (b *builder) link() error {
	b.owner = make(map[AggregateID]string)
	for _, a := range b.g.aggregates {
		for i, attr := range a.schema.Attributes {
			k := attrKey{agg: a.ID, attr: i}
			kind := attrKind(attr)
			switch {
			case kind == load.KindRef:
				to, ok := b.g.byName[attr.Ref]
				if !ok {
					return aggregen.NewSchemaError(aggregen.KindDanglingReference, a.Name, attr.Name,
						fmt.Sprintf("referenced aggregate %q is not declared", attr.Ref))
				}
				e := b.addEdge(EdgeReference, 0, a.ID, to, attr.Name)
				a.Refs = append(a.Refs, e.ID)
				b.edges[k] = append(b.edges[k], e.ID)
			case attr.Owns():
				mult, names := One, []string{attr.Name}
				switch kind {
				case load.KindChildren:
					mult = Many
				case load.KindVariation:
					mult, names = Variant, nil
					for _, it := range attr.Items {
						names = append(names, it.Name)
					}
				}
				for j, owned := range attr.Owned() {
					to, ok := b.g.byName[owned]
					if !ok {
						return aggregen.NewSchemaError(aggregen.KindDanglingReference, a.Name, attr.Name,
							fmt.Sprintf("owned aggregate %q is not declared", owned))
					}
					decl := a.Name + "." + names[j]
					if to == a.ID {
						return aggregen.NewSchemaError(aggregen.KindCycle, a.Name, names[j], "aggregate owns itself")
					}
					if prev, ok := b.owner[to]; ok {
						return aggregen.NewSchemaError(aggregen.KindCycle, owned, "",
							fmt.Sprintf("owned by both %s and %s", prev, decl))
					}
					b.owner[to] = decl
					e := b.addEdge(EdgeParentChild, mult, a.ID, to, names[j])
					a.Children = append(a.Children, e.ID)
					b.g.aggregates[to].Parent = e.ID
					b.edges[k] = append(b.edges[k], e.ID)
				}
			}
		}
	}
	return nil
}

func (b *builder) addEdge(kind EdgeKind, mult Multiplicity, from, to AggregateID, name string) *Edge {
	e := &Edge{
		ID:           EdgeID(len(b.g.edges)),
		Kind:         kind,
		Multiplicity: mult,
		From:         from,
		To:           to,
		Name:         name,
		Member:       NoMember,
	}
	b.g.edges = append(b.g.edges, e)
	return e
}

// checkOwnership verifies that ownership edges are acyclic. Each aggregate
// has at most one owner at this point, so the edges form a forest exactly
// when following owners always ends at a root.
func (b *builder) checkOwnership() error {
	g := b.g
	err := graphcycle.Detect(graphcycle.Config[AggregateID]{
		Starts: g.ids(),
		Next: func(id AggregateID) []AggregateID {
			a := g.aggregates[id]
			if a.IsRoot() {
				return nil
			}
			return []AggregateID{g.edges[a.Parent].From}
		},
	})
	if err != nil {
		return b.cycleError(err, aggregen.KindCycle, "ownership cycle")
	}
	for _, a := range g.aggregates {
		depth, x := 0, a
		for !x.IsRoot() {
			x = g.aggregates[g.edges[x.Parent].From]
			depth++
		}
		a.root, a.depth = x.ID, depth
	}
	return nil
}

// checkNames verifies that sibling members have unique names. The parent
// field name is reserved on non-root aggregates.
func (b *builder) checkNames() error {
	for _, a := range b.g.aggregates {
		seen := make(map[string]struct{})
		if !a.IsRoot() {
			seen[b.g.cfg.ParentField] = struct{}{}
		}
		for _, attr := range a.schema.Attributes {
			names := []string{attr.Name}
			if attrKind(attr) == load.KindVariation {
				for _, it := range attr.Items {
					names = append(names, it.Name)
				}
			}
			for _, name := range names {
				if _, ok := seen[name]; ok {
					return aggregen.NewSchemaError(aggregen.KindDuplicateName, a.Name, name, "member declared more than once")
				}
				seen[name] = struct{}{}
			}
		}
	}
	return nil
}

// checkKeys verifies that roots and collection elements declare a key,
// and that key resolution terminates: an aggregate's key depends on its
// parent's key and on the keys of the aggregates its key references
// point to.
func (b *builder) checkKeys() error {
	g := b.g
	for _, a := range g.aggregates {
		if !a.IsRoot() && g.edges[a.Parent].Multiplicity != Many {
			continue
		}
		hasKey := false
		for _, attr := range a.schema.Attributes {
			hasKey = hasKey || attr.Key
		}
		if !hasKey {
			what := "root aggregate"
			if !a.IsRoot() {
				what = "collection element"
			}
			return aggregen.NewSchemaError(aggregen.KindMissingKey, a.Name, "", what+" declares no key")
		}
	}
	err := graphcycle.Detect(graphcycle.Config[AggregateID]{
		Starts: g.ids(),
		Next: func(id AggregateID) []AggregateID {
			a := g.aggregates[id]
			var next []AggregateID
			if !a.IsRoot() {
				next = append(next, g.edges[a.Parent].From)
			}
			for i, attr := range a.schema.Attributes {
				if attr.Key && attrKind(attr) == load.KindRef {
					next = append(next, g.edges[b.edges[attrKey{agg: id, attr: i}][0]].To)
				}
			}
			return next
		},
	})
	if err != nil {
		return b.cycleError(err, aggregen.KindKeyCycle, "key resolution does not terminate")
	}
	return nil
}

// classify derives members, keys and names of every aggregate, then
// checks the synthesized mirror names against their siblings.
func (b *builder) classify() error {
	c := newClassifier(b.g, b.edges)
	for _, a := range b.g.aggregates {
		c.membersOf(a)
		c.keysOf(a)
		c.namesOf(a)
	}
	for _, a := range b.g.aggregates {
		seen := make(map[string]struct{}, len(a.Members))
		for _, id := range a.Members {
			m := b.g.members[id]
			if _, ok := seen[m.Name]; ok {
				return aggregen.NewSchemaError(aggregen.KindDuplicateName, a.Name, m.Name,
					"member name collides with a mirrored key")
			}
			seen[m.Name] = struct{}{}
		}
	}
	return nil
}

func (b *builder) cycleError(err error, kind aggregen.SchemaErrorKind, msg string) error {
	var ce graphcycle.CycleError[AggregateID]
	if !errors.As(err, &ce) {
		return err
	}
	names := make([]string, len(ce.Path))
	for i, id := range ce.Path {
		names[i] = b.g.aggregates[id].Name
	}
	return aggregen.NewSchemaError(kind, b.g.aggregates[ce.Key].Name, "",
		fmt.Sprintf("%s: %s", msg, strings.Join(names, " -> ")))
}

func (g *Graph) ids() []AggregateID {
	ids := make([]AggregateID, len(g.aggregates))
	for i := range g.aggregates {
		ids[i] = AggregateID(i)
	}
	return ids
}

// Config returns the normalized configuration of the graph.
func (g *Graph) Config() Config { return *g.cfg }

// Aggregates returns all aggregates in declaration order.
func (g *Graph) Aggregates() []*Aggregate {
	return append([]*Aggregate(nil), g.aggregates...)
}

// Aggregate returns the aggregate with the given id.
func (g *Graph) Aggregate(id AggregateID) *Aggregate { return g.aggregates[id] }

// Lookup returns the aggregate with the given name.
func (g *Graph) Lookup(name string) (*Aggregate, bool) {
	id, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return g.aggregates[id], true
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) *Edge { return g.edges[id] }

// Member returns the member with the given id.
func (g *Graph) Member(id MemberID) *Member { return g.members[id] }

// MembersOf returns the classified members of a in declaration order.
// Non-root aggregates start with their synthetic Parent member.
func (g *Graph) MembersOf(a *Aggregate) []*Member {
	return g.resolveIDs(a.Members)
}

// MemberByName returns the member of a with the given name.
func (g *Graph) MemberByName(a *Aggregate, name string) (*Member, bool) {
	for _, id := range a.Members {
		if m := g.members[id]; m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// QualifiedName returns the member name prefixed by its declarer, e.g.
// "Line.Quantity".
func (g *Graph) QualifiedName(m *Member) string {
	return g.aggregates[m.Declarer].Name + "." + m.Name
}

// Roots returns the aggregates without an owner, in declaration order.
func (g *Graph) Roots() []*Aggregate {
	var roots []*Aggregate
	for _, a := range g.aggregates {
		if a.IsRoot() {
			roots = append(roots, a)
		}
	}
	return roots
}

// Root returns the root of the ownership tree holding a.
func (g *Graph) Root(a *Aggregate) *Aggregate { return g.aggregates[a.root] }

// Parent returns the owner of a, or nil for roots.
func (g *Graph) Parent(a *Aggregate) *Aggregate {
	if a.IsRoot() {
		return nil
	}
	return g.aggregates[g.edges[a.Parent].From]
}

// Ancestors returns the owners of a, nearest first, ending at its root.
// The sequence is finite and may be iterated more than once.
func (g *Graph) Ancestors(a *Aggregate) iter.Seq[*Aggregate] {
	return func(yield func(*Aggregate) bool) {
		for x := g.Parent(a); x != nil; x = g.Parent(x) {
			if !yield(x) {
				return
			}
		}
	}
}

// Descendants returns the aggregates owned by a, directly or not, in
// depth-first declaration order. The sequence is finite and may be
// iterated more than once.
func (g *Graph) Descendants(a *Aggregate) iter.Seq[*Aggregate] {
	return func(yield func(*Aggregate) bool) {
		stack := g.childIDs(a)
		for len(stack) > 0 {
			x := g.aggregates[stack[0]]
			stack = append(g.childIDs(x), stack[1:]...)
			if !yield(x) {
				return
			}
		}
	}
}

func (g *Graph) childIDs(a *Aggregate) []AggregateID {
	ids := make([]AggregateID, len(a.Children))
	for i, e := range a.Children {
		ids[i] = g.edges[e].To
	}
	return ids
}

// PathFromEntry returns the route from entry to a. Within one ownership
// tree the route climbs to the closest common ancestor and descends from
// there, which is unique. Across trees every reference edge counts as a
// single jump and the shortest route wins; ties prefer the parent, then
// children, then references, each in declaration order.
func (g *Graph) PathFromEntry(a, entry *Aggregate) ([]Step, error) {
	steps, ok := g.route(entry.ID, a.ID)
	if !ok {
		return nil, &aggregen.PathError{
			Err:    aggregen.ErrNotReachable,
			Member: a.Name,
			Entry:  entry.Name,
		}
	}
	return steps, nil
}

func (g *Graph) route(from, to AggregateID) ([]Step, bool) {
	if g.aggregates[from].root == g.aggregates[to].root {
		return g.treePath(from, to), true
	}
	type visit struct {
		prev AggregateID
		step Step
	}
	seen := map[AggregateID]visit{from: {prev: NoAggregate}}
	queue := []AggregateID{from}
	for len(queue) > 0 && queue[0] != to {
		x := queue[0]
		queue = queue[1:]
		for _, st := range g.moves(x) {
			y := g.target(st)
			if _, ok := seen[y]; ok {
				continue
			}
			seen[y] = visit{prev: x, step: st}
			queue = append(queue, y)
		}
	}
	if _, ok := seen[to]; !ok {
		return nil, false
	}
	var steps []Step
	for x := to; x != from; x = seen[x].prev {
		steps = append(steps, seen[x].step)
	}
	reverse(steps)
	return steps, true
}

// treePath returns the route between two aggregates of the same tree.
func (g *Graph) treePath(from, to AggregateID) []Step {
	var up, down []Step
	x, y := g.aggregates[from], g.aggregates[to]
	for x.depth > y.depth {
		up = append(up, Step{Edge: x.Parent, Up: true})
		x = g.Parent(x)
	}
	for y.depth > x.depth {
		down = append(down, Step{Edge: y.Parent})
		y = g.Parent(y)
	}
	for x != y {
		up = append(up, Step{Edge: x.Parent, Up: true})
		down = append(down, Step{Edge: y.Parent})
		x, y = g.Parent(x), g.Parent(y)
	}
	reverse(down)
	return append(up, down...)
}

// moves lists the steps leaving x in tie-break order.
func (g *Graph) moves(x AggregateID) []Step {
	a := g.aggregates[x]
	steps := make([]Step, 0, 1+len(a.Children)+len(a.Refs))
	if !a.IsRoot() {
		steps = append(steps, Step{Edge: a.Parent, Up: true})
	}
	for _, e := range a.Children {
		steps = append(steps, Step{Edge: e})
	}
	for _, e := range a.Refs {
		steps = append(steps, Step{Edge: e})
	}
	return steps
}

// target returns the aggregate a step arrives at.
func (g *Graph) target(st Step) AggregateID {
	e := g.edges[st.Edge]
	if st.Up {
		return e.From
	}
	return e.To
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
