package gen

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/aggregen"
	"github.com/syssam/aggregen/compiler/load"
)

func TestNewGraph(t *testing.T) {
	require := require.New(t)
	g := orderGraph(t)

	require.Equal(
		[]string{"Customer", "Product", "Order", "Line", "Delivery", "CashPayment", "CardPayment"},
		aggregateNames(g.Aggregates()),
	)
	require.Equal([]string{"Customer", "Product", "Order"}, aggregateNames(g.Roots()))

	order := mustLookup(t, g, "Order")
	require.True(order.IsRoot())
	require.Equal("Sales order", order.DisplayName)
	require.Equal("order", order.Label())
	require.Len(order.Children, 3)
	require.Len(order.Refs, 1)

	lines := g.Edge(order.Children[0])
	require.Equal(EdgeParentChild, lines.Kind)
	require.Equal(Many, lines.Multiplicity)
	require.Equal("Lines", lines.Name)
	require.True(lines.IsCollection())
	require.Equal("Line", g.Aggregate(lines.To).Name)
	require.Equal("Lines", g.Member(lines.Member).Name)

	cash := g.Edge(order.Children[1])
	require.Equal(Variant, cash.Multiplicity)
	require.Equal("Cash", cash.Name)
	require.False(cash.IsCollection())

	customer := g.Edge(order.Refs[0])
	require.True(customer.IsReference())
	require.Equal("Customer", g.Aggregate(customer.To).Name)

	delivery := mustLookup(t, g, "Delivery")
	require.Equal(2, delivery.Depth())
	require.Equal(order, g.Root(delivery))
	require.Equal("Line", g.Parent(delivery).Name)
	require.Nil(g.Parent(order))

	product := mustLookup(t, g, "Product")
	require.True(product.ReadOnly)

	_, ok := g.Lookup("Invoice")
	require.False(ok)
}

func TestNewGraph_Logger(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)
	orderGraph(t, WithLogger(l))
	assert.Contains(t, buf.String(), "aggregate graph built")
	assert.Contains(t, buf.String(), "aggregates=7")
}

func TestNewGraph_Errors(t *testing.T) {
	tests := []struct {
		name    string
		schemas []*load.Schema
		kind    error
		msg     string
	}{
		{
			name: "multiple parents",
			schemas: []*load.Schema{
				schema("A", key("Id"), children("Xs", "X")),
				schema("B", key("Id"), child("X", "X")),
				schema("X", key("Id")),
			},
			kind: aggregen.ErrCycle,
			msg:  "owned by both A.Xs and B.X",
		},
		{
			name: "owns itself",
			schemas: []*load.Schema{
				schema("A", key("Id"), child("Self", "A")),
			},
			kind: aggregen.ErrCycle,
			msg:  "aggregate owns itself",
		},
		{
			name: "ownership cycle",
			schemas: []*load.Schema{
				schema("A", key("Id"), child("B", "B")),
				schema("B", child("C", "C")),
				schema("C", child("A", "A")),
			},
			kind: aggregen.ErrCycle,
			msg:  "ownership cycle: A -> C -> B -> A",
		},
		{
			name: "duplicate aggregate",
			schemas: []*load.Schema{
				schema("A", key("Id")),
				schema("A", key("Id")),
			},
			kind: aggregen.ErrDuplicateName,
			msg:  "aggregate declared more than once",
		},
		{
			name: "duplicate member",
			schemas: []*load.Schema{
				schema("A", key("Id"), scalar("Id")),
			},
			kind: aggregen.ErrDuplicateName,
			msg:  "member Id: member declared more than once",
		},
		{
			name: "member named like the parent field",
			schemas: []*load.Schema{
				schema("A", key("Id"), child("B", "B")),
				schema("B", scalar("parent")),
			},
			kind: aggregen.ErrDuplicateName,
			msg:  "member parent",
		},
		{
			name: "variation item named like an attribute",
			schemas: []*load.Schema{
				schema("A", key("Id"), &load.Attribute{
					Name: "Kind", Kind: load.KindVariation,
					Items: []*load.Item{{Key: 1, Name: "Id", Aggregate: "B"}},
				}),
				schema("B"),
			},
			kind: aggregen.ErrDuplicateName,
			msg:  "member Id",
		},
		{
			name: "mirrored key collides with attribute",
			schemas: []*load.Schema{
				schema("A", key("Id"), ref("C", "C"), scalar("C_Id")),
				schema("C", key("Id")),
			},
			kind: aggregen.ErrDuplicateName,
			msg:  "member C_Id: member name collides with a mirrored key",
		},
		{
			name: "dangling reference",
			schemas: []*load.Schema{
				schema("A", key("Id"), ref("X", "Missing")),
			},
			kind: aggregen.ErrDanglingReference,
			msg:  `referenced aggregate "Missing" is not declared`,
		},
		{
			name: "dangling child",
			schemas: []*load.Schema{
				schema("A", key("Id"), children("Xs", "Missing")),
			},
			kind: aggregen.ErrDanglingReference,
			msg:  `owned aggregate "Missing" is not declared`,
		},
		{
			name: "root without key",
			schemas: []*load.Schema{
				schema("A", scalar("Name")),
			},
			kind: aggregen.ErrMissingKey,
			msg:  "root aggregate declares no key",
		},
		{
			name: "collection element without key",
			schemas: []*load.Schema{
				schema("A", key("Id"), children("Bs", "B")),
				schema("B", scalar("Name")),
			},
			kind: aggregen.ErrMissingKey,
			msg:  "collection element declares no key",
		},
		{
			name: "mutual key references",
			schemas: []*load.Schema{
				schema("A", keyRef("B", "B")),
				schema("B", keyRef("A", "A")),
			},
			kind: aggregen.ErrKeyCycle,
			msg:  "key resolution does not terminate: A -> B -> A",
		},
		{
			name: "key reference to own child",
			schemas: []*load.Schema{
				schema("A", keyRef("First", "B"), children("Bs", "B")),
				schema("B", key("No")),
			},
			kind: aggregen.ErrKeyCycle,
			msg:  "key resolution does not terminate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGraph(nil, tt.schemas...)
			require.Error(t, err)
			require.Nil(t, g, "no partially built graph")
			require.ErrorIs(t, err, tt.kind)
			require.ErrorIs(t, err, aggregen.ErrInvalidSchema)
			require.ErrorContains(t, err, tt.msg)

			var se *aggregen.SchemaError
			require.True(t, errors.As(err, &se))
		})
	}
}

func TestNewGraph_StructuralError(t *testing.T) {
	_, err := NewGraph(nil, schema("A", &load.Attribute{Name: "X", Kind: "list"}))
	require.EqualError(t, err, `schema "A": attribute "X": unknown kind "list"`)
	require.False(t, aggregen.IsSchemaError(err))

	t.Run("nil attribute", func(t *testing.T) {
		var err error
		require.NotPanics(t, func() { _, err = NewGraph(nil, schema("A", key("Id"), nil)) })
		require.EqualError(t, err, `schema "A": attribute #1 is empty`)
	})
}

func TestNewGraph_ReferenceCycles(t *testing.T) {
	g, err := NewGraph(nil,
		schema("Customer", key("Id"), ref("Favorite", "Order")),
		schema("Order", key("Id"), ref("Customer", "Customer")),
	)
	require.NoError(t, err, "reference edges may cycle")
	require.Len(t, g.Roots(), 2)
}

func TestNewGraph_ParentField(t *testing.T) {
	g := orderGraph(t, WithParentField("owner"))
	line := mustLookup(t, g, "Line")
	first := g.MembersOf(line)[0]
	require.Equal(t, KindParent, first.Kind)
	require.Equal(t, "owner", first.Name)
	require.Equal(t, "owner", g.Config().ParentField)
}

func TestGraph_Ancestors(t *testing.T) {
	g := orderGraph(t)
	delivery := mustLookup(t, g, "Delivery")

	ancestors := g.Ancestors(delivery)
	require.Equal(t, []string{"Line", "Order"}, aggregateNames(slices.Collect(ancestors)))
	require.Equal(t, []string{"Line", "Order"}, aggregateNames(slices.Collect(ancestors)), "restartable")
	require.Empty(t, slices.Collect(g.Ancestors(mustLookup(t, g, "Order"))))

	for range g.Ancestors(delivery) {
		break
	}
}

func TestGraph_Descendants(t *testing.T) {
	g := orderGraph(t)
	order := mustLookup(t, g, "Order")

	descendants := g.Descendants(order)
	want := []string{"Line", "Delivery", "CashPayment", "CardPayment"}
	require.Equal(t, want, aggregateNames(slices.Collect(descendants)))
	require.Equal(t, want, aggregateNames(slices.Collect(descendants)), "restartable")
	require.Empty(t, slices.Collect(g.Descendants(mustLookup(t, g, "Customer"))))

	var first []string
	for a := range descendants {
		first = append(first, a.Name)
		break
	}
	require.Equal(t, []string{"Line"}, first)
}

// Every owned aggregate climbs to a single root in Depth steps.
func TestGraph_ForestInvariant(t *testing.T) {
	g := orderGraph(t)
	for _, a := range g.Aggregates() {
		ancestors := slices.Collect(g.Ancestors(a))
		require.Len(t, ancestors, a.Depth(), a.Name)
		seen := map[AggregateID]bool{a.ID: true}
		for _, p := range ancestors {
			require.False(t, seen[p.ID], "%s: ancestor %s repeated", a.Name, p.Name)
			seen[p.ID] = true
		}
		if a.IsRoot() {
			require.Equal(t, a, g.Root(a))
			continue
		}
		require.Equal(t, g.Root(a), ancestors[len(ancestors)-1])
		require.True(t, ancestors[len(ancestors)-1].IsRoot())
	}
}

func TestGraph_PathFromEntry(t *testing.T) {
	g := orderGraph(t)
	var (
		order    = mustLookup(t, g, "Order")
		line     = mustLookup(t, g, "Line")
		delivery = mustLookup(t, g, "Delivery")
		cash     = mustLookup(t, g, "CashPayment")
		customer = mustLookup(t, g, "Customer")
		product  = mustLookup(t, g, "Product")
	)
	describe := func(steps []Step) []string {
		var out []string
		for _, st := range steps {
			e := g.Edge(st.Edge)
			if st.Up {
				out = append(out, "^"+e.Name)
			} else {
				out = append(out, e.Name)
			}
		}
		return out
	}

	tests := []struct {
		name      string
		to, entry *Aggregate
		want      []string
	}{
		{"self", order, order, nil},
		{"down", delivery, order, []string{"Lines", "Deliveries"}},
		{"up", order, delivery, []string{"^Deliveries", "^Lines"}},
		{"across the tree", cash, delivery, []string{"^Deliveries", "^Lines", "Cash"}},
		{"reference", customer, order, []string{"Customer"}},
		{"reference from a descendant", product, order, []string{"Lines", "Product"}},
		{"reference after climbing", customer, delivery, []string{"^Deliveries", "^Lines", "Customer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := g.PathFromEntry(tt.to, tt.entry)
			require.NoError(t, err)
			require.Equal(t, tt.want, describe(steps))
		})
	}

	t.Run("not reachable", func(t *testing.T) {
		_, err := g.PathFromEntry(line, customer)
		require.ErrorIs(t, err, aggregen.ErrNotReachable)
		require.True(t, aggregen.IsPathError(err))
	})

	t.Run("ties prefer declaration order", func(t *testing.T) {
		g, err := NewGraph(nil,
			schema("Entry", key("Id"), ref("First", "Target"), ref("Second", "Target")),
			schema("Target", key("Id")),
		)
		require.NoError(t, err)
		steps, err := g.PathFromEntry(mustLookup(t, g, "Target"), mustLookup(t, g, "Entry"))
		require.NoError(t, err)
		require.Len(t, steps, 1)
		require.Equal(t, "First", g.Edge(steps[0].Edge).Name)
	})
}
