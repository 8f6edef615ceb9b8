package gen

import (
	"fmt"
	"io"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode writes the table in its msgpack snapshot form.
func (t *Table) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("encode table snapshot: %w", err)
	}
	return nil
}

// DecodeTable reads a table snapshot written by Encode.
func DecodeTable(r io.Reader) (*Table, error) {
	t := &Table{}
	if err := msgpack.NewDecoder(r).Decode(t); err != nil {
		return nil, fmt.Errorf("decode table snapshot: %w", err)
	}
	return t, nil
}

// ChangeOp is the operation of a snapshot change.
type ChangeOp uint8

// Change operations.
const (
	Added ChangeOp = iota + 1
	Removed
	Changed
)

// String returns the operation name.
func (op ChangeOp) String() string {
	switch op {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Change is one difference between two tables. Old is zero for additions
// and New is zero for removals.
type Change struct {
	Op       ChangeOp
	Old, New Row
}

// String returns a one-line description of the change.
func (c Change) String() string {
	switch c.Op {
	case Added:
		return fmt.Sprintf("+ %s: %s", c.New.key(), c.New.Path)
	case Removed:
		return fmt.Sprintf("- %s: %s", c.Old.key(), c.Old.Path)
	default:
		return fmt.Sprintf("~ %s: %s => %s", c.New.key(), c.Old.Path, c.New.Path)
	}
}

// Diff lists the rows added, removed or changed from one table to the
// next. Removals come in the order of from, additions and changes in the
// order of to.
func Diff(from, to *Table) []Change {
	prev := make(map[string]Row, len(from.Rows))
	for _, r := range from.Rows {
		prev[r.key()] = r
	}
	next := make(map[string]struct{}, len(to.Rows))
	for _, r := range to.Rows {
		next[r.key()] = struct{}{}
	}
	var changes []Change
	for _, r := range from.Rows {
		if _, ok := next[r.key()]; !ok {
			changes = append(changes, Change{Op: Removed, Old: r})
		}
	}
	for _, r := range to.Rows {
		o, ok := prev[r.key()]
		switch {
		case !ok:
			changes = append(changes, Change{Op: Added, New: r})
		case !slices.Equal(o.Path, r.Path) || o.Scope != r.Scope:
			changes = append(changes, Change{Op: Changed, Old: o, New: r})
		}
	}
	return changes
}
