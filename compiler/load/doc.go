// Package load reads aggregate schema files (YAML or JSON) into the raw
// schema model consumed by the gen package.
//
// A schema file is a flat list of aggregate declarations:
//
//	schemas:
//	  - name: Order
//	    attributes:
//	      - {name: OrderId, type: word, key: true}
//	      - {name: Customer, kind: ref, ref: Customer}
//	      - {name: Lines, kind: children, aggregate: Line}
//	  - name: Line
//	    attributes:
//	      - {name: LineNo, type: int, key: true}
//	      - {name: Quantity, type: int}
//
// Loading checks each declaration in isolation. Whether the declarations
// form a valid aggregate forest is decided by gen.NewGraph.
package load
