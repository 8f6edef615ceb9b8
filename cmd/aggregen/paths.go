package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/syssam/aggregen/compiler/gen"
)

// PathsCommand prints the resolution table of an entry aggregate.
type PathsCommand struct {
	Schema   string   `arg:"" help:"Schema file (.yaml, .yml or .json)." type:"existingfile"`
	Entry    string   `help:"Entry aggregate." short:"e" required:""`
	Policy   []string `help:"Projections to resolve (default: all)." short:"p"`
	Workers  int      `help:"Parallel resolution workers (default: GOMAXPROCS)."`
	Snapshot string   `help:"Write the table snapshot to this file." type:"path"`
	Compare  string   `help:"Print the changes against this snapshot instead of the table." type:"existingfile"`
}

func (c *PathsCommand) Run(app *App) error {
	var opts []gen.Option
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	g, err := app.graph(c.Schema, opts...)
	if err != nil {
		return err
	}
	entry, ok := g.Lookup(c.Entry)
	if !ok {
		return fmt.Errorf("entry aggregate %q not found in %s", c.Entry, c.Schema)
	}
	var policies []gen.Policy
	for _, name := range c.Policy {
		p, err := gen.PolicyByName(name)
		if err != nil {
			return err
		}
		policies = append(policies, p)
	}
	table, err := g.ResolveAll(context.Background(), entry, policies...)
	if err != nil {
		return err
	}
	if c.Snapshot != "" {
		if err := writeSnapshot(c.Snapshot, table); err != nil {
			return err
		}
		app.Logger.Info("snapshot written", "file", c.Snapshot, "rows", len(table.Rows))
	}
	if c.Compare != "" {
		return compare(app, c.Compare, table)
	}
	w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
	for _, r := range table.Rows {
		fmt.Fprintf(w, "%s.%s\t%s\t%s\t%s\n", r.Aggregate, r.Member, r.Policy, r.Scope, r.Path)
	}
	return w.Flush()
}

func writeSnapshot(path string, table *gen.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := table.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func compare(app *App, path string, table *gen.Table) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	prev, err := gen.DecodeTable(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	changes := gen.Diff(prev, table)
	for _, ch := range changes {
		if _, err := fmt.Fprintln(app.Out, ch); err != nil {
			return err
		}
	}
	app.Logger.Info("compared with snapshot", "file", path, "changes", len(changes))
	return nil
}
