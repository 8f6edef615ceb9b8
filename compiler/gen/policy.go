package gen

import "fmt"

var (
	// PolicyEntity renders the persisted-entity shape: plain relation and
	// member names, no wrappers.
	PolicyEntity = Policy{
		Name:        "entity",
		Description: "Persisted entity shape",
	}

	// PolicyDisplay renders the view-model shape. Members and references of
	// the entry tree are nested under own_members; aggregates reached only
	// through a reference are flattened.
	PolicyDisplay = Policy{
		Name:        "display",
		Description: "Display/view-model shape",
		InTree:      Wrappers{Relation: WrapperOwnMembers, Leaf: WrapperOwnMembers},
	}

	// PolicyFilter renders the search-condition shape, which wraps every
	// value and reference crossing.
	PolicyFilter = Policy{
		Name:        "filter",
		Description: "Search filter shape",
		InTree:      Wrappers{Relation: WrapperFilter, Leaf: WrapperFilter},
		OutOfTree:   Wrappers{Relation: WrapperFilter, Leaf: WrapperFilter},
	}

	// PolicyRegisterName renders form register names. It is the display
	// shape with the reference-crossing wrappers of the entry tree
	// collapsed.
	PolicyRegisterName = Policy{
		Name:        "register-name",
		Description: "Form register-name shape",
		InTree:      Wrappers{Leaf: WrapperOwnMembers},
	}

	// PolicyKey renders the key/reference shape.
	PolicyKey = Policy{
		Name:        "key",
		Description: "Key and reference shape",
		InTree:      Wrappers{Relation: WrapperKeys, Leaf: WrapperKeys},
		OutOfTree:   Wrappers{Relation: WrapperKeys, Leaf: WrapperKeys},
	}
)

// Wrapper segment names used by the built-in policies.
const (
	WrapperOwnMembers = "own_members"
	WrapperFilter     = "filter"
	WrapperKeys       = "keys"
)

// Policies returns the built-in projections.
func Policies() []Policy {
	return []Policy{
		PolicyEntity,
		PolicyDisplay,
		PolicyFilter,
		PolicyRegisterName,
		PolicyKey,
	}
}

// PolicyByName returns the built-in projection with the given name.
func PolicyByName(name string) (Policy, error) {
	for _, p := range Policies() {
		if p.Name == name {
			return p, nil
		}
	}
	return Policy{}, fmt.Errorf("unknown policy %q", name)
}

// Wrappers holds the wrapper segments a projection inserts. An empty name
// inserts nothing.
type Wrappers struct {
	// Relation is emitted before the relation name of a reference crossing.
	Relation string
	// Leaf is emitted before the name of a value-bearing member.
	Leaf string
}

// A Policy is one projection of the aggregate tree. Every projection
// shares the path walker and differs only in the wrappers it inserts and
// in whether the terminal collection crossing is indexed.
type Policy struct {
	// Name of the projection.
	Name string

	// A Description of the projection.
	Description string

	// InTree applies while the walk stays within the ownership tree of the
	// entry.
	InTree Wrappers

	// OutOfTree applies once the walk has crossed a reference edge.
	OutOfTree Wrappers

	// TerminalIndex requests an array index for the last edge of the path
	// when it enters a collection. It is set by ElementAccess, never
	// inferred.
	TerminalIndex bool
}

// ElementAccess returns a copy of the policy addressing one element of
// the terminal collection.
func (p Policy) ElementAccess() Policy {
	p.TerminalIndex = true
	return p
}

// DeclarationSite returns a copy of the policy addressing the terminal
// collection itself.
func (p Policy) DeclarationSite() Policy {
	p.TerminalIndex = false
	return p
}

// wrappers returns the wrapper set for the given scope.
func (p Policy) wrappers(inTree bool) Wrappers {
	if inTree {
		return p.InTree
	}
	return p.OutOfTree
}

// String returns the policy name, suffixed with "[]" when the terminal
// index is requested.
func (p Policy) String() string {
	if p.TerminalIndex {
		return p.Name + "[]"
	}
	return p.Name
}
