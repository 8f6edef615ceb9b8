package main

import (
	"github.com/ddddddO/gtree"

	"github.com/syssam/aggregen/compiler/gen"
)

// printTree writes the ownership forest, one tree per root:
//
//	Order
//	├── Lines: Line[]
//	│   └── Deliveries: Delivery[]
//	└── Cash: CashPayment (variant)
func printTree(app *App, g *gen.Graph, roots []*gen.Aggregate) error {
	for _, r := range roots {
		root := gtree.NewRoot(r.Name)
		addOwned(g, root, r)
		if err := gtree.OutputFromRoot(app.Out, root); err != nil {
			return err
		}
	}
	return nil
}

func addOwned(g *gen.Graph, node *gtree.Node, a *gen.Aggregate) {
	for _, id := range a.Children {
		e := g.Edge(id)
		owned := g.Aggregate(e.To)
		label := e.Name + ": " + owned.Name
		switch e.Multiplicity {
		case gen.Many:
			label += "[]"
		case gen.Variant:
			label += " (variant)"
		}
		addOwned(g, node.Add(label), owned)
	}
}
