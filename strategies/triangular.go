package strategies

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/quantsim/market"
	"github.com/rustyeddy/quantsim/portfolio"
)

// TriangularParams configures the triangular arbitrage detector over a
// currency triangle: A and B quoted in the account currency, C the cross
// between their bases. The implied cross is A/B, so with A=ETH/USD and
// B=BTC/USD the triangle closes on C=ETH/BTC.
type TriangularParams struct {
	SymbolA      string
	SymbolB      string
	SymbolC      string
	MinProfitBps float64 // threshold on net profit after fees
	FeePerLegBps float64 // charged on each of the three legs
	TradeSizeUSD float64 // notional per executed cycle
	Execute      bool    // false = detection-only, true = book the cycle
}

func DefaultTriangularParams() TriangularParams {
	return TriangularParams{
		SymbolA:      "ETH/USD",
		SymbolB:      "BTC/USD",
		SymbolC:      "ETH/BTC",
		MinProfitBps: 5.0,
		FeePerLegBps: 10.0,
		TradeSizeUSD: 1000.0,
	}
}

// Opportunity is one detected mispricing of the triangle.
type Opportunity struct {
	Time         time.Time
	Cycle        string
	NetProfitBps float64
}

// Triangular compares the implied cross rate A/B against the observed
// cross C each step. It is stateless across steps apart from the
// accumulated opportunity log.
type Triangular struct {
	TriangularParams

	opportunities []Opportunity
}

func NewTriangular(p TriangularParams) *Triangular {
	return &Triangular{TriangularParams: p}
}

func (s *Triangular) Name() string { return "triangular-arbitrage" }

func (s *Triangular) Reset() { s.opportunities = nil }

// Opportunities returns the detections recorded so far this run.
func (s *Triangular) Opportunities() []Opportunity {
	out := make([]Opportunity, len(s.opportunities))
	copy(out, s.opportunities)
	return out
}

func (s *Triangular) OnSnapshot(ctx context.Context, book Book, snap market.Snapshot) []Order {
	_ = ctx

	priceA, okA := snap.Mid(s.SymbolA)
	priceB, okB := snap.Mid(s.SymbolB)
	priceC, okC := snap.Mid(s.SymbolC)
	if !okA || !okB || !okC {
		// A zero or missing leg skips the step; never an error.
		return nil
	}

	implied := priceA / priceB
	grossBps := (implied/priceC - 1) * 10000
	netBps := grossBps - s.FeePerLegBps*3
	if netBps <= s.MinProfitBps {
		return nil
	}

	s.opportunities = append(s.opportunities, Opportunity{
		Time:         snap.Time,
		Cycle:        fmt.Sprintf("%s->%s->%s", s.SymbolA, s.SymbolB, s.SymbolC),
		NetProfitBps: netBps,
	})

	if !s.Execute {
		return nil
	}

	// The B and cross legs collapse into an effective synthetic fill on A
	// at priceB*priceC; selling at the observed A price realizes the edge.
	effective := priceB * priceC
	if effective <= 0 {
		return nil
	}
	qtyA := s.TradeSizeUSD / effective

	return []Order{
		{Symbol: s.SymbolA, Quantity: qtyA, Price: effective, Side: portfolio.Buy},
		{Symbol: s.SymbolA, Quantity: qtyA, Price: priceA, Side: portfolio.Sell},
	}
}
