package load

import (
	"fmt"
)

// Attribute kinds accepted in a schema file.
const (
	KindScalar    = "scalar"
	KindRef       = "ref"
	KindChild     = "child"
	KindChildren  = "children"
	KindVariation = "variation"
)

// Set is the content of one schema file: a flat list of aggregate
// declarations. Ownership between aggregates is declared by child,
// children and variation attributes that name the owned aggregate.
type Set struct {
	Version string    `json:"version,omitempty" yaml:"version,omitempty"`
	Schemas []*Schema `json:"schemas" yaml:"schemas"`
}

// Schema represents one aggregate declaration as it was loaded from a
// schema file.
type Schema struct {
	Name        string       `json:"name" yaml:"name"`
	DisplayName string       `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	ReadOnly    bool         `json:"read_only,omitempty" yaml:"read_only,omitempty"`
	Independent bool         `json:"independent,omitempty" yaml:"independent,omitempty"`
	Attributes  []*Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Comment     string       `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Attribute represents one raw attribute of an aggregate.
type Attribute struct {
	Name string `json:"name" yaml:"name"`
	// Kind is one of scalar, ref, child, children or variation.
	// An empty kind is read as scalar.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Type is the value type of a scalar, e.g. "word" or "int".
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// Key marks the attribute as part of the aggregate key.
	Key bool `json:"key,omitempty" yaml:"key,omitempty"`
	// Display marks the attribute as a display-name designee.
	Display  bool `json:"display,omitempty" yaml:"display,omitempty"`
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`
	// Ref holds the referenced aggregate name of a ref attribute.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
	// Aggregate holds the owned aggregate name of a child or children
	// attribute.
	Aggregate string `json:"aggregate,omitempty" yaml:"aggregate,omitempty"`
	// Items holds the arms of a variation attribute.
	Items   []*Item `json:"items,omitempty" yaml:"items,omitempty"`
	Comment string  `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Item is one arm of a variation attribute.
type Item struct {
	Key       int    `json:"key" yaml:"key"`
	Name      string `json:"name" yaml:"name"`
	Aggregate string `json:"aggregate" yaml:"aggregate"`
}

// Owns reports if the attribute declares ownership of other aggregates.
func (a *Attribute) Owns() bool {
	switch a.Kind {
	case KindChild, KindChildren, KindVariation:
		return true
	}
	return false
}

// Owned returns the names of the aggregates owned through this attribute,
// in declaration order.
func (a *Attribute) Owned() []string {
	switch a.Kind {
	case KindChild, KindChildren:
		return []string{a.Aggregate}
	case KindVariation:
		names := make([]string, 0, len(a.Items))
		for _, it := range a.Items {
			names = append(names, it.Aggregate)
		}
		return names
	}
	return nil
}

// check verifies the attribute is structurally complete. Cross-schema
// checks (existence of targets, ownership shape) belong to the graph.
func (a *Attribute) check() error {
	if a.Name == "" {
		return fmt.Errorf("attribute name cannot be empty")
	}
	switch a.Kind {
	case KindScalar, "":
	case KindRef:
		if a.Ref == "" {
			return fmt.Errorf("ref attribute %q: missing target aggregate", a.Name)
		}
	case KindChild, KindChildren:
		if a.Aggregate == "" {
			return fmt.Errorf("%s attribute %q: missing owned aggregate", a.Kind, a.Name)
		}
		if a.Key {
			return fmt.Errorf("%s attribute %q cannot be a key", a.Kind, a.Name)
		}
	case KindVariation:
		if len(a.Items) == 0 {
			return fmt.Errorf("variation attribute %q: no items", a.Name)
		}
		keys := make(map[int]struct{}, len(a.Items))
		for i, it := range a.Items {
			if it == nil {
				return fmt.Errorf("variation attribute %q: item #%d is empty", a.Name, i)
			}
			if it.Name == "" || it.Aggregate == "" {
				return fmt.Errorf("variation attribute %q: item needs a name and an aggregate", a.Name)
			}
			if _, ok := keys[it.Key]; ok {
				return fmt.Errorf("variation attribute %q: duplicate item key %d", a.Name, it.Key)
			}
			keys[it.Key] = struct{}{}
		}
	default:
		return fmt.Errorf("attribute %q: unknown kind %q", a.Name, a.Kind)
	}
	return nil
}

// Check verifies the schema is structurally complete.
func (s *Schema) Check() error {
	if s.Name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}
	for i, a := range s.Attributes {
		if a == nil {
			return fmt.Errorf("schema %q: attribute #%d is empty", s.Name, i)
		}
		if err := a.check(); err != nil {
			return fmt.Errorf("schema %q: %w", s.Name, err)
		}
	}
	return nil
}

// Lookup returns the schema with the given name.
func (s *Set) Lookup(name string) (*Schema, bool) {
	for _, sc := range s.Schemas {
		if sc.Name == name {
			return sc, true
		}
	}
	return nil, false
}
