// Package gen provides the aggregate graph model and the path-resolution
// engine consumed by the code templates of a generated application.
//
// Templates never inspect raw schemas. They ask the Graph which members an
// aggregate has, which of them form its key, and which chain of named
// steps reaches a member value from the aggregate a template is rendered
// for.
//
// # Architecture
//
// The pipeline follows this flow:
//
//	Schema files (YAML/JSON)
//	        ↓
//	   load.Set (raw declarations)
//	        ↓
//	   Graph (validated arena of aggregates, edges, members)
//	        ↓
//	   Resolve / ResolveAll (one path per member per projection)
//	        ↓
//	   Templates (out of this package)
//
// # Key Types
//
//   - Graph: arena of aggregates, edges and members, indexed by id
//   - Aggregate: one entity type, root or owned by a parent
//   - Edge: a ParentChild or Reference connection between aggregates
//   - Member: a classified attribute; MemberKind selects the variant
//   - Policy: one projection of the tree (entity, display, filter,
//     register-name, key)
//   - Path: the resolved segment chain of a member
//
// # Error Handling
//
// Schema validation failures are *aggregen.SchemaError values matching
// aggregen.ErrInvalidSchema and the sentinel of their kind. Path failures
// are *aggregen.PathError values and indicate a caller defect:
//
//	g, err := gen.NewGraph(cfg, set.Schemas...)
//	if errors.Is(err, aggregen.ErrCycle) {
//	    // an aggregate is owned twice, or owns itself
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithLogger(logger),
//	    gen.WithWorkers(4),
//	    gen.WithParentField("parent"),
//	)
//
// # Usage
//
//	order, _ := g.Lookup("Order")
//	line, _ := g.Lookup("Line")
//	qty, _ := g.MemberByName(line, "Quantity")
//	path, err := g.Resolve(qty, order, gen.PolicyDisplay.ElementAccess(), []string{"i"})
//	// path.String() == "Lines[i].own_members.Quantity"
//
// # Code Organization
//
//   - aggregate.go: Aggregate, Edge and Step
//   - graph.go: Graph construction, validation and navigation
//   - member.go: member classification
//   - keys.go: key and display-name resolution
//   - scope.go: entry-tree scope
//   - policy.go: projection policies
//   - path.go: the path walker
//   - render.go: path rendering
//   - table.go, snapshot.go: resolution tables and their snapshots
//   - generate.go, writer.go: Go source output of resolution tables
//   - naming.go: identifier helpers and default index names
//   - option.go, errors.go: configuration
package gen
