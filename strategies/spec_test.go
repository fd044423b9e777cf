package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Kind
	}{
		{"noop", KindNoop},
		{"none", KindNoop},
		{"triangular-arbitrage", KindTriangular},
		{"triangular_arbitrage", KindTriangular},
		{"triangular", KindTriangular},
		{"pairs-trading", KindPairs},
		{"pairs_trading", KindPairs},
		{"Market-Making", KindMarketMaker},
		{" market_making ", KindMarketMaker},
	}

	for _, tt := range tests {
		got, err := KindByName(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := KindByName("momentum")
	assert.Error(t, err)
}

func TestKindRoundTrip(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		got, err := KindByName(k.String())
		require.NoError(t, err, k)
		assert.Equal(t, k, got)
	}
}

func TestSpecBuildDefaults(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		s, err := Spec{Kind: k}.Build(42)
		require.NoError(t, err, k)
		require.NotNil(t, s, k)
		assert.Equal(t, k.String(), s.Name())
	}

	_, err := Spec{Kind: Kind(99)}.Build(42)
	assert.Error(t, err)
}

func TestSpecBuildUsesParams(t *testing.T) {
	t.Parallel()

	p := DefaultPairsParams()
	p.Lookback = 17
	s, err := Spec{Kind: KindPairs, Pairs: &p}.Build(1)
	require.NoError(t, err)

	pairs, ok := s.(*Pairs)
	require.True(t, ok)
	assert.Equal(t, 17, pairs.Lookback)
}
