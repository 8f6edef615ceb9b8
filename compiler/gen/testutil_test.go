package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/aggregen/compiler/load"
)

// orderGraph builds the graph of the sales order fixture:
//
//	Customer{CustomerId*, Name}
//	Product{Code*, Name}
//	Order{OrderId*, Customer -> Customer, Lines[] Line, Payment: Cash|Card}
//	Line{LineNo*, Product -> Product, Quantity, Deliveries[] Delivery}
//	Delivery{Seq*, Date}
//	CashPayment{Received}
//	CardPayment{CardNo}
func orderGraph(t testing.TB, opts ...Option) *Graph {
	t.Helper()
	set, err := load.ParseFile("../load/testdata/order.yaml")
	require.NoError(t, err)
	g, err := NewGraph(MustNewConfig(opts...), set.Schemas...)
	require.NoError(t, err)
	return g
}

func mustLookup(t testing.TB, g *Graph, name string) *Aggregate {
	t.Helper()
	a, ok := g.Lookup(name)
	require.True(t, ok, "aggregate %q", name)
	return a
}

// member returns the member "Aggregate.Member".
func member(t testing.TB, g *Graph, agg, name string) *Member {
	t.Helper()
	m, ok := g.MemberByName(mustLookup(t, g, agg), name)
	require.True(t, ok, "member %s.%s", agg, name)
	return m
}

func memberNames(ms []*Member) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

func aggregateNames(as []*Aggregate) []string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.Name
	}
	return names
}

func scalar(name string) *load.Attribute {
	return &load.Attribute{Name: name, Kind: load.KindScalar, Type: "word"}
}

func key(name string) *load.Attribute {
	return &load.Attribute{Name: name, Kind: load.KindScalar, Type: "word", Key: true}
}

func ref(name, target string) *load.Attribute {
	return &load.Attribute{Name: name, Kind: load.KindRef, Ref: target}
}

func keyRef(name, target string) *load.Attribute {
	return &load.Attribute{Name: name, Kind: load.KindRef, Ref: target, Key: true}
}

func child(name, target string) *load.Attribute {
	return &load.Attribute{Name: name, Kind: load.KindChild, Aggregate: target}
}

func children(name, target string) *load.Attribute {
	return &load.Attribute{Name: name, Kind: load.KindChildren, Aggregate: target}
}

func schema(name string, attrs ...*load.Attribute) *load.Schema {
	return &load.Schema{Name: name, Attributes: attrs}
}
