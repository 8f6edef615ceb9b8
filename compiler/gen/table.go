package gen

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Table holds the resolved paths of every member reachable from one
// entry, under a set of projections.
type Table struct {
	Entry string `msgpack:"entry"`
	Rows  []Row  `msgpack:"rows"`
}

// Row is one resolved member path.
type Row struct {
	Aggregate string `msgpack:"aggregate"`
	Member    string `msgpack:"member"`
	Kind      string `msgpack:"kind"`
	Policy    string `msgpack:"policy"`
	Scope     string `msgpack:"scope"`
	Path      Path   `msgpack:"path"`
}

// key identifies a row within a table.
func (r Row) key() string {
	return r.Aggregate + "." + r.Member + "/" + r.Policy
}

// Lookup returns the row of the given member and projection.
func (t *Table) Lookup(aggregate, member, policy string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Aggregate == aggregate && r.Member == member && r.Policy == policy {
			return r, true
		}
	}
	return Row{}, false
}

// resolveTask is one cell of the table.
type resolveTask struct {
	slot   int
	member *Member
	policy Policy
}

// ResolveAll resolves every member of every aggregate reachable from
// entry, under each of the given projections, or the configured ones when
// none are given. Paths address collection elements and use the default
// index names. Rows are ordered by aggregate declaration, member order
// and projection order.
func (g *Graph) ResolveAll(ctx context.Context, entry *Aggregate, policies ...Policy) (*Table, error) {
	if len(policies) == 0 {
		policies = g.cfg.Policies
	}
	start := time.Now()
	var tasks []resolveTask
	for _, a := range g.aggregates {
		if g.Scope(a, entry) == Unreachable {
			continue
		}
		for _, id := range a.Members {
			for _, p := range policies {
				tasks = append(tasks, resolveTask{
					slot:   len(tasks),
					member: g.members[id],
					policy: p.ElementAccess(),
				})
			}
		}
	}
	t := &Table{Entry: entry.Name, Rows: make([]Row, len(tasks))}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for _, task := range tasks {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			row, err := g.resolveRow(task.member, entry, task.policy)
			if err != nil {
				return err
			}
			t.Rows[task.slot] = row
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("resolve from %s: %w", entry.Name, err)
	}
	g.cfg.Logger.Debug("resolution table computed",
		"entry", entry.Name,
		"rows", len(t.Rows),
		"policies", len(policies),
		"elapsed", time.Since(start),
	)
	return t, nil
}

// resolveRow resolves one member with its default index names.
func (g *Graph) resolveRow(m *Member, entry *Aggregate, p Policy) (Row, error) {
	steps, err := g.Route(m, entry)
	if err != nil {
		return Row{}, err
	}
	path, err := g.Resolve(m, entry, p, DefaultIndexNames(g, steps))
	if err != nil {
		return Row{}, err
	}
	return Row{
		Aggregate: g.aggregates[m.Declarer].Name,
		Member:    m.Name,
		Kind:      m.Kind.String(),
		Policy:    p.Name,
		Scope:     g.routeScope(steps, g.aggregates[m.Owner], entry).String(),
		Path:      path,
	}, nil
}

// routeScope is the scope the resolver applies to the leaf of steps: once
// a reference is crossed the member is read out of tree, even when its
// owner shares the entry tree.
func (g *Graph) routeScope(steps []Step, owner, entry *Aggregate) Scope {
	s := g.Scope(owner, entry)
	if s != InTree {
		return s
	}
	for _, st := range steps {
		if g.edges[st.Edge].IsReference() {
			return OutOfTree
		}
	}
	return s
}
