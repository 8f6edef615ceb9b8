package main

import "fmt"

// CheckCommand validates a schema file.
type CheckCommand struct {
	Schema string `arg:"" help:"Schema file (.yaml, .yml or .json)." type:"existingfile"`
	Watch  bool   `help:"Re-check whenever the file changes." short:"w"`
}

func (c *CheckCommand) Run(app *App) error {
	if err := c.check(app); err != nil {
		if !c.Watch {
			return err
		}
		app.Logger.Error("schema rejected", "err", err)
	}
	if !c.Watch {
		return nil
	}
	return app.watch(c.Schema, func() error { return c.check(app) })
}

func (c *CheckCommand) check(app *App) error {
	g, err := app.graph(c.Schema)
	if err != nil {
		return err
	}
	members := 0
	for _, a := range g.Aggregates() {
		members += len(g.MembersOf(a))
	}
	_, err = fmt.Fprintf(app.Out, "%s: ok (%d aggregates, %d roots, %d members)\n",
		c.Schema, len(g.Aggregates()), len(g.Roots()), members)
	return err
}
