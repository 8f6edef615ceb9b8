package gen

// Scope locates an aggregate relative to an entry.
type Scope uint8

const (
	// Unreachable aggregates have no route from the entry.
	Unreachable Scope = iota
	// InTree aggregates share the ownership tree, and so the save
	// transaction, of the entry.
	InTree
	// OutOfTree aggregates are reached only through a reference. They are
	// persisted on their own and read-only except for the key value.
	OutOfTree
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case InTree:
		return "InTree"
	case OutOfTree:
		return "OutOfTree"
	default:
		return "Unreachable"
	}
}

// IsInEntryTree reports if a is connected to entry by ParentChild edges
// alone, without crossing a reference.
func (g *Graph) IsInEntryTree(a, entry *Aggregate) bool {
	return a.root == entry.root
}

// Scope returns the scope of a as seen from entry.
func (g *Graph) Scope(a, entry *Aggregate) Scope {
	switch {
	case g.IsInEntryTree(a, entry):
		return InTree
	case g.reachable(entry.ID, a.ID):
		return OutOfTree
	default:
		return Unreachable
	}
}

func (g *Graph) reachable(from, to AggregateID) bool {
	_, ok := g.route(from, to)
	return ok
}
