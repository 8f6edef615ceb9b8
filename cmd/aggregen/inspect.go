package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"

	"github.com/syssam/aggregen/compiler/gen"
)

// InspectCommand prints the classified members and keys of a schema.
type InspectCommand struct {
	Schema    string `arg:"" help:"Schema file (.yaml, .yml or .json)." type:"existingfile"`
	Aggregate string `help:"Only print this aggregate." short:"a"`
	Raw       bool   `help:"Dump the graph structures instead of the summary." xor:"format"`
	Tree      bool   `help:"Print the ownership trees instead of the summary." xor:"format"`
}

func (c *InspectCommand) Run(app *App) error {
	g, err := app.graph(c.Schema)
	if err != nil {
		return err
	}
	aggs := g.Aggregates()
	if c.Aggregate != "" {
		a, ok := g.Lookup(c.Aggregate)
		if !ok {
			return fmt.Errorf("aggregate %q not found in %s", c.Aggregate, c.Schema)
		}
		aggs = []*gen.Aggregate{a}
	}
	if c.Tree {
		if c.Aggregate == "" {
			aggs = g.Roots()
		}
		return printTree(app, g, aggs)
	}
	for _, a := range aggs {
		if c.Raw {
			spew.Fdump(app.Out, a, g.MembersOf(a))
			continue
		}
		if err := inspect(app, g, a); err != nil {
			return err
		}
	}
	return nil
}

func inspect(app *App, g *gen.Graph, a *gen.Aggregate) error {
	var flags []string
	if p := g.Parent(a); p != nil {
		flags = append(flags, "owned by "+p.Name)
	} else {
		flags = append(flags, "root")
	}
	if a.ReadOnly {
		flags = append(flags, "read-only")
	}
	if a.Independent {
		flags = append(flags, "independent")
	}
	fmt.Fprintf(app.Out, "%s %q (%s)\n", a.Name, a.DisplayName, strings.Join(flags, ", "))

	w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
	for _, m := range g.MembersOf(a) {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", m.Name, m.Kind, m.Type, describe(g, a, m))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "  keys:  %s\n", names(g.KeysOf(a)))
	_, err := fmt.Fprintf(app.Out, "  names: %s\n", names(g.NamesOf(a)))
	return err
}

func describe(g *gen.Graph, a *gen.Aggregate, m *gen.Member) string {
	var parts []string
	if g.IsKey(a, m) {
		parts = append(parts, "key")
	}
	if m.Edge != gen.NoEdge {
		e := g.Edge(m.Edge)
		switch {
		case m.Kind == gen.KindParent:
			parts = append(parts, "^ "+g.Aggregate(e.From).Name)
		default:
			parts = append(parts, "-> "+g.Aggregate(e.To).Name)
		}
	}
	if m.Kind == gen.KindRefMirroredKey {
		parts = append(parts, "mirrors "+g.QualifiedName(g.Mirrored(m)))
	}
	return strings.Join(parts, " ")
}

func names(ms []*gen.Member) string {
	s := make([]string, len(ms))
	for i, m := range ms {
		s[i] = m.Name
	}
	return strings.Join(s, ", ")
}
