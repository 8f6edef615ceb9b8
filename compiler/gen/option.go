package gen

import (
	"errors"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
)

// DefaultParentField is the segment emitted when a path climbs from a
// child aggregate to its parent, and the name of the synthetic Parent
// member.
const DefaultParentField = "parent"

// Config holds the settings shared by graph construction and path
// resolution.
type Config struct {
	// Logger receives debug records while the graph is built and while
	// resolution tables are computed. Nil discards.
	Logger *log.Logger
	// Workers bounds the parallelism of ResolveAll. Zero means GOMAXPROCS.
	Workers int
	// ParentField names the synthetic Parent member and the child-to-parent
	// path segment. Empty means DefaultParentField.
	ParentField string
	// Policies are the projections ResolveAll computes when called
	// without explicit policies. Empty means all built-in projections.
	Policies []Policy
}

// Option configures a Config.
type Option func(*Config) error

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithWorkers sets the number of parallel resolution workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithParentField sets the name used for child-to-parent navigation.
func WithParentField(name string) Option {
	return func(c *Config) error {
		if !isIdent(name) {
			return NewConfigError("ParentField", name, "parent field must be an identifier")
		}
		c.ParentField = name
		return nil
	}
}

// WithPolicies sets the default projections of ResolveAll.
func WithPolicies(policies ...Policy) Option {
	return func(c *Config) error {
		seen := make(map[string]struct{}, len(policies))
		for _, p := range policies {
			if p.Name == "" {
				return NewConfigError("Policies", nil, "policy name cannot be empty")
			}
			if _, ok := seen[p.Name]; ok {
				return NewConfigError("Policies", p.Name, "duplicate policy")
			}
			seen[p.Name] = struct{}{}
		}
		c.Policies = append(c.Policies, policies...)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// normalize returns a copy of c with defaults filled in. A nil config
// yields the defaults.
func (c *Config) normalize() *Config {
	n := Config{}
	if c != nil {
		n = *c
	}
	if n.Logger == nil {
		n.Logger = log.New(io.Discard)
	}
	if n.Workers <= 0 {
		n.Workers = runtime.GOMAXPROCS(0)
	}
	if n.ParentField == "" {
		n.ParentField = DefaultParentField
	}
	if len(n.Policies) == 0 {
		n.Policies = Policies()
	}
	return &n
}
