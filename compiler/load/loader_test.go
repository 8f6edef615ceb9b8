package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		set, err := ParseFile("testdata/order.yaml")
		require.NoError(t, err)
		require.Equal(t, "1", set.Version)
		require.Len(t, set.Schemas, 7)

		order, ok := set.Lookup("Order")
		require.True(t, ok)
		require.Equal(t, "Sales order", order.DisplayName)
		require.Len(t, order.Attributes, 4)
		assert.Equal(t, KindScalar, order.Attributes[0].Kind, "empty kind defaults to scalar")
		assert.True(t, order.Attributes[0].Key)
		assert.Equal(t, "Customer", order.Attributes[1].Ref)
		assert.False(t, order.Attributes[1].Owns(), "references do not own")
		assert.True(t, order.Attributes[2].Owns())
		assert.Equal(t, []string{"Line"}, order.Attributes[2].Owned())
		assert.Equal(t, []string{"CashPayment", "CardPayment"}, order.Attributes[3].Owned())

		product, ok := set.Lookup("Product")
		require.True(t, ok)
		assert.True(t, product.ReadOnly)
		assert.Equal(t, "Product", product.DisplayName, "display name defaults to name")
	})

	t.Run("json", func(t *testing.T) {
		set, err := ParseFile("testdata/order.json")
		require.NoError(t, err)
		require.Len(t, set.Schemas, 3)
		line, ok := set.Lookup("Line")
		require.True(t, ok)
		assert.Equal(t, "int", line.Attributes[0].Type)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ParseFile("testdata/unknown_kind.yaml")
		require.ErrorContains(t, err, `schema "Order": attribute "OrderId": unknown kind "number"`)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ParseFile("testdata/unknown_field.yaml")
		require.ErrorContains(t, err, "failed to parse schema YAML")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ParseFile("testdata/order.toml")
		require.EqualError(t, err, `unsupported schema file extension ".toml"`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParse_EmptyEntries(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  string
	}{
		{"schema", "schemas:\n  - ~\n", "schema #0 is empty"},
		{"attribute", "schemas:\n  - name: Order\n    attributes:\n      - {name: OrderId, key: true}\n      - ~\n", `schema "Order": attribute #1 is empty`},
		{"item", "schemas:\n  - name: Order\n    attributes:\n      - {name: Payment, kind: variation, items: [~]}\n", `schema "Order": variation attribute "Payment": item #0 is empty`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = Parse([]byte(tt.data), FormatYAML) })
			require.EqualError(t, err, tt.err)
		})
	}

	t.Run("json", func(t *testing.T) {
		_, err := Parse([]byte(`{"schemas": [{"name": "Order", "attributes": [null]}]}`), FormatJSON)
		require.EqualError(t, err, `schema "Order": attribute #0 is empty`)
	})
}

func TestAttributeCheck(t *testing.T) {
	tests := []struct {
		name string
		attr Attribute
		err  string
	}{
		{"empty name", Attribute{Kind: KindScalar}, "attribute name cannot be empty"},
		{"ref without target", Attribute{Name: "Customer", Kind: KindRef}, `ref attribute "Customer": missing target aggregate`},
		{"children without aggregate", Attribute{Name: "Lines", Kind: KindChildren}, `children attribute "Lines": missing owned aggregate`},
		{"child as key", Attribute{Name: "Detail", Kind: KindChild, Aggregate: "Detail", Key: true}, `child attribute "Detail" cannot be a key`},
		{"variation without items", Attribute{Name: "Payment", Kind: KindVariation}, `variation attribute "Payment": no items`},
		{
			"variation duplicate item key",
			Attribute{Name: "Payment", Kind: KindVariation, Items: []*Item{
				{Key: 1, Name: "Cash", Aggregate: "Cash"},
				{Key: 1, Name: "Card", Aggregate: "Card"},
			}},
			`variation attribute "Payment": duplicate item key 1`,
		},
		{"valid scalar", Attribute{Name: "Quantity", Kind: KindScalar}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.attr.check()
			if tt.err == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.err)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	set, err := ParseFile("testdata/order.yaml")
	require.NoError(t, err)
	for _, format := range []Format{FormatYAML, FormatJSON} {
		buf, err := Marshal(set, format)
		require.NoError(t, err)
		again, err := Parse(buf, format)
		require.NoError(t, err)
		require.Equal(t, set, again, string(format))
	}
	_, err = Marshal(set, "toml")
	require.Error(t, err)
}
