package gen

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
)

// Generator writes the resolution tables of a graph as Go source, one
// file per entry aggregate. Each file declares the path table of the entry
// and a lookup function:
//
//	var OrderPaths = map[string]string{
//		"Line.Quantity/display": "Lines[line].own_members.Quantity",
//	}
//
//	func OrderPath(aggregate, member, policy string) (string, bool)
type Generator struct {
	graph  *Graph
	outDir string
	pkg    string
	writer *fileWriter
}

// NewGenerator creates a generator writing into outDir. The package name
// defaults to the base name of outDir.
func NewGenerator(g *Graph, outDir string) *Generator {
	return &Generator{
		graph:  g,
		outDir: outDir,
		pkg:    filepath.Base(outDir),
		writer: newFileWriter(outDir),
	}
}

// WithPackage sets the output package name.
func (g *Generator) WithPackage(pkg string) *Generator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// Metrics returns the counters of the files written so far.
func (g *Generator) Metrics() WriterMetrics {
	return g.writer.snapshot()
}

// Generate resolves the table of every entry, or of every root when no
// entry is given, under the configured projections and writes one file
// per entry.
func (g *Generator) Generate(ctx context.Context, entries ...*Aggregate) error {
	if g.outDir == "" {
		return NewConfigError("Target", g.outDir, "missing target directory")
	}
	if !isIdent(g.pkg) {
		return NewConfigError("Package", g.pkg, "package name is not a Go identifier")
	}
	if len(entries) == 0 {
		entries = g.graph.Roots()
	}
	files := make(map[string]*Aggregate, len(entries))
	for _, entry := range entries {
		name := snake(entry.Name) + "_paths.go"
		if prev, ok := files[name]; ok {
			if prev == entry {
				return fmt.Errorf("entry %s given more than once", entry.Name)
			}
			return fmt.Errorf("entries %s and %s both generate %s", prev.Name, entry.Name, name)
		}
		files[name] = entry
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.graph.cfg.Workers)
	for name, entry := range files {
		eg.Go(func() error {
			t, err := g.graph.ResolveAll(ctx, entry)
			if err != nil {
				return err
			}
			return g.writer.write(g.file(t), name)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	m := g.Metrics()
	g.graph.cfg.Logger.Info("paths generated",
		"dir", g.outDir,
		"files", m.FilesGenerated,
		"bytes", m.TotalBytes,
	)
	return nil
}

// file renders the table of one entry.
func (g *Generator) file(t *Table) *jen.File {
	f := jen.NewFile(g.pkg)
	f.HeaderComment("Code generated by aggregen. DO NOT EDIT.")

	name := pascal(t.Entry)
	table := name + "Paths"
	f.Commentf("%s holds the member paths resolved from %s, keyed by \"Aggregate.Member/policy\".", table, t.Entry)
	f.Var().Id(table).Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
		for _, r := range t.Rows {
			d[jen.Lit(r.key())] = jen.Lit(r.Path.String())
		}
	}))
	f.Line()

	f.Commentf("%sPath returns the path of a member resolved from %s.", name, t.Entry)
	f.Func().Id(name+"Path").Params(
		jen.List(jen.Id("aggregate"), jen.Id("member"), jen.Id("policy")).String(),
	).Params(jen.String(), jen.Bool()).Block(
		jen.List(jen.Id("p"), jen.Id("ok")).Op(":=").Id(table).Index(
			jen.Id("aggregate").Op("+").Lit(".").Op("+").Id("member").Op("+").Lit("/").Op("+").Id("policy"),
		),
		jen.Return(jen.Id("p"), jen.Id("ok")),
	)
	return f
}
