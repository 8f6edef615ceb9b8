package gen_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/aggregen/compiler/gen"
	"github.com/syssam/aggregen/compiler/load"
)

func loadOrder(b *testing.B) *load.Set {
	b.Helper()
	set, err := load.ParseFile("../load/testdata/order.yaml")
	require.NoError(b, err, "loading fixture")
	return set
}

func BenchmarkNewGraph(b *testing.B) {
	set := loadOrder(b)
	cfg := gen.MustNewConfig()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := gen.NewGraph(cfg, set.Schemas...)
		require.NoError(b, err)
	}
}

func BenchmarkResolveAll(b *testing.B) {
	g := gen.MustNewGraph(gen.MustNewConfig(), loadOrder(b).Schemas...)
	entry, ok := g.Lookup("Delivery")
	require.True(b, ok)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := g.ResolveAll(context.Background(), entry)
		require.NoError(b, err)
	}
}
