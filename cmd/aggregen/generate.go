package main

import (
	"context"
	"fmt"

	"github.com/syssam/aggregen/compiler/gen"
)

// GenerateCommand writes the resolution tables as Go source.
type GenerateCommand struct {
	Schema  string   `arg:"" help:"Schema file (.yaml, .yml or .json)." type:"existingfile"`
	Out     string   `help:"Output directory." short:"o" required:"" type:"path"`
	Package string   `help:"Output package name (default: base name of the output directory)."`
	Entry   []string `help:"Entry aggregates (default: every root)." short:"e"`
	Policy  []string `help:"Projections to resolve (default: all)." short:"p"`
}

func (c *GenerateCommand) Run(app *App) error {
	var opts []gen.Option
	if len(c.Policy) > 0 {
		policies := make([]gen.Policy, 0, len(c.Policy))
		for _, name := range c.Policy {
			p, err := gen.PolicyByName(name)
			if err != nil {
				return err
			}
			policies = append(policies, p)
		}
		opts = append(opts, gen.WithPolicies(policies...))
	}
	g, err := app.graph(c.Schema, opts...)
	if err != nil {
		return err
	}
	var entries []*gen.Aggregate
	for _, name := range c.Entry {
		a, ok := g.Lookup(name)
		if !ok {
			return fmt.Errorf("entry aggregate %q not found in %s", name, c.Schema)
		}
		entries = append(entries, a)
	}
	return gen.NewGenerator(g, c.Out).WithPackage(c.Package).Generate(context.Background(), entries...)
}
