package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"
)

// String returns the debug form of the path, e.g.
// "Lines[line].own_members.Quantity".
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		switch s.Kind {
		case SegmentArrayIndex:
			b.WriteString("[")
			b.WriteString(s.Name)
			b.WriteString("]")
		default:
			if i > 0 {
				b.WriteString(".")
			}
			b.WriteString(s.Name)
		}
	}
	return b.String()
}

// Jen returns the path as a Go selector expression rooted at root. Field
// and wrapper names are exported, array indices select with the loop
// variable:
//
//	o.Lines[line].OwnMembers.Quantity
func (p Path) Jen(root jen.Code) *jen.Statement {
	s := jen.Add(root)
	for _, seg := range p {
		switch seg.Kind {
		case SegmentArrayIndex:
			s = s.Index(jen.Id(seg.Name))
		default:
			s = s.Dot(pascal(seg.Name))
		}
	}
	return s
}
