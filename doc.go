// Package aggregen holds the public error taxonomy of the aggregate graph
// engine. The graph model, member classification, key resolution and path
// resolution live in compiler/gen; raw schema loading lives in
// compiler/load.
//
// Schema errors are detected once, while the graph is built, and are
// always fatal:
//
//	g, err := gen.NewGraph(cfg, schemas...)
//	if errors.Is(err, aggregen.ErrCycle) {
//		// an aggregate is owned twice, or owns itself
//	}
//
// Path errors are returned by the resolver and identify the member, entry
// and projection that were asked for. They point at a renderer defect.
package aggregen
