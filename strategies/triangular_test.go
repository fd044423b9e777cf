package strategies

import (
	"context"
	"testing"
	"time"

	"github.com/rustyeddy/quantsim/market"
	"github.com/rustyeddy/quantsim/portfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookStub struct {
	inv  map[string]float64
	cash float64
}

func (b *bookStub) Inventory(symbol string) float64 { return b.inv[symbol] }
func (b *bookStub) Cash() float64                   { return b.cash }

func triSnapshot(a, b, c float64) market.Snapshot {
	return market.Snapshot{
		Time: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Mids: map[string]float64{"A": a, "B": b, "C": c},
	}
}

func newTestTriangular(execute bool) *Triangular {
	p := DefaultTriangularParams()
	p.SymbolA, p.SymbolB, p.SymbolC = "A", "B", "C"
	p.FeePerLegBps = 10
	p.MinProfitBps = 5
	p.Execute = execute
	return NewTriangular(p)
}

func TestTriangularDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		a, b, c float64
		want    int
	}{
		{
			// implied C = 1.0/2.0 = 0.5; gross vs 0.49 ~ 204 bps, net ~174 bps
			name: "underpriced cross detected",
			a:    1.0, b: 2.0, c: 0.49,
			want: 1,
		},
		{
			// cross exactly at implied: zero gross, below threshold
			name: "fairly priced cross ignored",
			a:    1.0, b: 2.0, c: 0.5,
			want: 0,
		},
		{
			// profitable before fees but not after 3 x 10 bps
			name: "edge eaten by fees",
			a:    1.0, b: 2.0, c: 0.4995,
			want: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestTriangular(false)
			book := &bookStub{cash: 100_000}

			orders := s.OnSnapshot(context.Background(), book, triSnapshot(tt.a, tt.b, tt.c))

			assert.Empty(t, orders, "detection-only mode never emits orders")
			assert.Len(t, s.Opportunities(), tt.want)
			if tt.want > 0 {
				opp := s.Opportunities()[0]
				assert.Equal(t, "A->B->C", opp.Cycle)
				assert.Greater(t, opp.NetProfitBps, 5.0)
			}
		})
	}
}

func TestTriangularZeroPriceSkipsStep(t *testing.T) {
	t.Parallel()

	s := newTestTriangular(false)
	book := &bookStub{cash: 100_000}

	for _, snap := range []market.Snapshot{
		triSnapshot(0, 2.0, 0.49),
		triSnapshot(1.0, 0, 0.49),
		triSnapshot(1.0, 2.0, 0),
		{Time: time.Now(), Mids: map[string]float64{"A": 1.0}}, // missing legs
	} {
		assert.Empty(t, s.OnSnapshot(context.Background(), book, snap))
	}
	assert.Empty(t, s.Opportunities())
}

func TestTriangularExecuteBooksCycle(t *testing.T) {
	t.Parallel()

	s := newTestTriangular(true)
	s.TradeSizeUSD = 980
	book := &bookStub{cash: 100_000}

	orders := s.OnSnapshot(context.Background(), book, triSnapshot(1.0, 2.0, 0.49))

	require.Len(t, orders, 2)

	// Synthetic entry at B*C, exit at the observed A price.
	buy, sell := orders[0], orders[1]
	assert.Equal(t, portfolio.Buy, buy.Side)
	assert.Equal(t, "A", buy.Symbol)
	assert.InDelta(t, 0.98, buy.Price, 1e-12)
	assert.InDelta(t, 1000, buy.Quantity, 1e-9)

	assert.Equal(t, portfolio.Sell, sell.Side)
	assert.Equal(t, "A", sell.Symbol)
	assert.InDelta(t, 1.0, sell.Price, 1e-12)
	assert.InDelta(t, buy.Quantity, sell.Quantity, 1e-12)

	assert.Len(t, s.Opportunities(), 1)
}

func TestTriangularReset(t *testing.T) {
	t.Parallel()

	s := newTestTriangular(false)
	s.OnSnapshot(context.Background(), &bookStub{}, triSnapshot(1.0, 2.0, 0.49))
	require.Len(t, s.Opportunities(), 1)

	s.Reset()
	assert.Empty(t, s.Opportunities())
}
