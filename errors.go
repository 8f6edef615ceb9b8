package aggregen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for schema validation. A *SchemaError matches
// ErrInvalidSchema and the sentinel of its Kind.
var (
	// ErrInvalidSchema is matched by every schema validation error.
	ErrInvalidSchema = errors.New("aggregen: invalid schema")

	// ErrCycle is returned when ownership (parent/child) edges do not form
	// a forest: an aggregate owned twice, or owning itself transitively.
	ErrCycle = errors.New("aggregen: ownership cycle")

	// ErrDuplicateName is returned when two aggregates, or two sibling
	// members, share a name.
	ErrDuplicateName = errors.New("aggregen: duplicate name")

	// ErrDanglingReference is returned when a relation names an aggregate
	// that was not declared.
	ErrDanglingReference = errors.New("aggregen: dangling reference")

	// ErrKeyCycle is returned when key resolution through references and
	// parents does not terminate.
	ErrKeyCycle = errors.New("aggregen: key cycle")

	// ErrMissingKey is returned when a root or collection aggregate
	// declares no key member.
	ErrMissingKey = errors.New("aggregen: missing key")
)

// Sentinel errors for path resolution. These indicate a defect in the
// caller rather than in the schema.
var (
	// ErrNotReachable is returned when no route exists from the entry to
	// the member owner.
	ErrNotReachable = errors.New("aggregen: member not reachable from entry")

	// ErrMissingIndex is returned when a collection crossing needs an index
	// name and the supplied list is exhausted.
	ErrMissingIndex = errors.New("aggregen: missing array index name")
)

// SchemaErrorKind classifies a SchemaError.
type SchemaErrorKind uint8

// Schema error kinds.
const (
	KindCycle SchemaErrorKind = iota + 1
	KindDuplicateName
	KindDanglingReference
	KindKeyCycle
	KindMissingKey
)

// String returns the kind name.
func (k SchemaErrorKind) String() string {
	switch k {
	case KindCycle:
		return "Cycle"
	case KindDuplicateName:
		return "DuplicateName"
	case KindDanglingReference:
		return "DanglingReference"
	case KindKeyCycle:
		return "KeyCycle"
	case KindMissingKey:
		return "MissingKey"
	default:
		return "Unknown"
	}
}

func (k SchemaErrorKind) sentinel() error {
	switch k {
	case KindCycle:
		return ErrCycle
	case KindDuplicateName:
		return ErrDuplicateName
	case KindDanglingReference:
		return ErrDanglingReference
	case KindKeyCycle:
		return ErrKeyCycle
	case KindMissingKey:
		return ErrMissingKey
	default:
		return nil
	}
}

// SchemaError represents a schema validation failure detected while
// building the aggregate graph.
type SchemaError struct {
	Kind      SchemaErrorKind
	Aggregate string // Aggregate name
	Member    string // Member name (if applicable)
	Message   string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("aggregen: schema error")
	if e.Kind != 0 {
		b.WriteString(" (")
		b.WriteString(e.Kind.String())
		b.WriteString(")")
	}
	if e.Aggregate != "" {
		b.WriteString(" on aggregate ")
		b.WriteString(e.Aggregate)
	}
	if e.Member != "" {
		b.WriteString(" member ")
		b.WriteString(e.Member)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether target is ErrInvalidSchema or the sentinel of the
// error kind.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema || (target != nil && target == e.Kind.sentinel())
}

// NewSchemaError returns a new SchemaError.
func NewSchemaError(kind SchemaErrorKind, aggregate, member, message string) *SchemaError {
	return &SchemaError{
		Kind:      kind,
		Aggregate: aggregate,
		Member:    member,
		Message:   message,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaError
	return errors.As(err, &e)
}

// PathError reports a failed path resolution. It identifies the member,
// the entry aggregate and the projection the caller asked for.
type PathError struct {
	Err    error  // ErrNotReachable or ErrMissingIndex
	Member string // Qualified member name, e.g. "Line.Quantity"
	Entry  string // Entry aggregate name
	Policy string // Projection name
	Detail string
}

// Error implements the error interface.
func (e *PathError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "aggregen: resolve %s from %s", e.Member, e.Entry)
	if e.Policy != "" {
		fmt.Fprintf(&b, " (%s)", e.Policy)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(strings.TrimPrefix(e.Err.Error(), "aggregen: "))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Unwrap returns the underlying sentinel.
func (e *PathError) Unwrap() error {
	return e.Err
}

// IsPathError reports whether the error is a PathError.
func IsPathError(err error) bool {
	if err == nil {
		return false
	}
	var e *PathError
	return errors.As(err, &e)
}

// IsNotReachable reports whether the error is a NotReachable path error.
func IsNotReachable(err error) bool {
	return errors.Is(err, ErrNotReachable)
}

// IsMissingIndex reports whether the error is a MissingIndex path error.
func IsMissingIndex(err error) bool {
	return errors.Is(err, ErrMissingIndex)
}
