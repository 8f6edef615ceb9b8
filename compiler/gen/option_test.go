package gen

import (
	"bytes"
	"io"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogger(t *testing.T) {
	t.Run("sets logger", func(t *testing.T) {
		c := &Config{}
		l := log.New(io.Discard)
		err := WithLogger(l)(c)

		require.NoError(t, err)
		assert.Same(t, l, c.Logger)
	})

	t.Run("nil logger", func(t *testing.T) {
		c := &Config{}
		err := WithLogger(nil)(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithWorkers(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"one", 1, false},
		{"many", 16, false},
		{"zero", 0, true},
		{"negative", -2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithWorkers(tt.n)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.n, c.Workers)
			}
		})
	}
}

func TestWithParentField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		wantErr bool
	}{
		{"default", "parent", false},
		{"camel", "ownerRecord", false},
		{"empty", "", true},
		{"dotted", "a.b", true},
		{"keyword", "func", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithParentField(tt.field)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.field, c.ParentField)
			}
		})
	}
}

func TestWithPolicies(t *testing.T) {
	t.Run("appends policies", func(t *testing.T) {
		c := &Config{}
		err := WithPolicies(PolicyDisplay, PolicyKey)(c)

		require.NoError(t, err)
		assert.Equal(t, []Policy{PolicyDisplay, PolicyKey}, c.Policies)
	})

	t.Run("duplicate policy", func(t *testing.T) {
		c := &Config{}
		err := WithPolicies(PolicyDisplay, PolicyDisplay.ElementAccess())(c)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate policy")
	})

	t.Run("unnamed policy", func(t *testing.T) {
		c := &Config{}
		err := WithPolicies(Policy{InTree: Wrappers{Leaf: "x"}})(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestConfigApply(t *testing.T) {
	t.Run("applies multiple options", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithWorkers(2),
			WithParentField("owner"),
		)

		require.NoError(t, err)
		assert.Equal(t, 2, c.Workers)
		assert.Equal(t, "owner", c.ParentField)
	})

	t.Run("stops on first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithWorkers(0),           // Error
			WithParentField("owner"), // Should not be applied
		)

		require.Error(t, err)
		assert.Zero(t, c.Workers)
		assert.Empty(t, c.ParentField)
	})
}

func TestConfigApplyAll(t *testing.T) {
	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(
			WithWorkers(0),       // Error
			WithParentField(""), // Error
		)

		require.Error(t, err)
		// errors.Join returns an error with Unwrap() []error
		unwrapper, ok := err.(interface{ Unwrap() []error })
		require.True(t, ok, "error should implement Unwrap() []error")
		assert.Equal(t, 2, len(unwrapper.Unwrap()))
	})

	t.Run("returns nil when all succeed", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(
			WithWorkers(1),
			WithParentField("parent"),
		)

		require.NoError(t, err)
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("creates config with options", func(t *testing.T) {
		c, err := NewConfig(
			WithWorkers(3),
		)

		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, 3, c.Workers)
	})

	t.Run("returns error on invalid option", func(t *testing.T) {
		c, err := NewConfig(
			WithWorkers(-1),
		)

		require.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestMustNewConfig(t *testing.T) {
	t.Run("returns config on success", func(t *testing.T) {
		c := MustNewConfig(
			WithParentField("up"),
		)

		require.NotNil(t, c)
		assert.Equal(t, "up", c.ParentField)
	})

	t.Run("panics on error", func(t *testing.T) {
		assert.Panics(t, func() {
			MustNewConfig(WithParentField(""))
		})
	})
}

func TestConfigNormalize(t *testing.T) {
	t.Run("nil config yields defaults", func(t *testing.T) {
		var c *Config
		n := c.normalize()

		require.NotNil(t, n.Logger)
		assert.Equal(t, runtime.GOMAXPROCS(0), n.Workers)
		assert.Equal(t, DefaultParentField, n.ParentField)
		assert.Equal(t, Policies(), n.Policies)
	})

	t.Run("keeps explicit settings", func(t *testing.T) {
		var buf bytes.Buffer
		l := log.New(&buf)
		c := MustNewConfig(WithLogger(l), WithWorkers(2), WithPolicies(PolicyKey))
		n := c.normalize()

		assert.Same(t, l, n.Logger)
		assert.Equal(t, 2, n.Workers)
		assert.Equal(t, []Policy{PolicyKey}, n.Policies)
		assert.NotSame(t, c, n)
	})
}
