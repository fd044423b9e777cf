package strategies

import (
	"context"
	"math/rand"

	"github.com/rustyeddy/quantsim/market"
	"github.com/rustyeddy/quantsim/portfolio"
)

// MarketMakerParams configures the inventory-aware quoter.
type MarketMakerParams struct {
	Symbol          string
	SpreadBps       float64 // half-spread = mid * SpreadBps / 10000
	PositionLimit   float64 // bid gated below +limit, ask above -limit
	QuoteSize       float64 // lot per fill
	FillProbability float64 // independent per eligible side, per step
	SkewFactor      float64 // 0 disables inventory skew of quote sizes
}

func DefaultMarketMakerParams() MarketMakerParams {
	return MarketMakerParams{
		Symbol:          "BTC/USD",
		SpreadBps:       10.0,
		PositionLimit:   10.0,
		QuoteSize:       0.1,
		FillProbability: 0.10,
	}
}

// MarketMaker quotes a bid and an ask around the mid each step. Fills use
// a fixed-probability model standing in for a real matching engine; the
// RNG is injected so runs are reproducible given a seed.
type MarketMaker struct {
	MarketMakerParams

	rng *rand.Rand
}

func NewMarketMaker(p MarketMakerParams, rng *rand.Rand) *MarketMaker {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &MarketMaker{MarketMakerParams: p, rng: rng}
}

func (s *MarketMaker) Name() string { return "market-making" }

// Reset keeps the RNG stream; reseed by constructing a new MarketMaker
// when a fresh deterministic run is needed.
func (s *MarketMaker) Reset() {}

func (s *MarketMaker) OnSnapshot(ctx context.Context, book Book, snap market.Snapshot) []Order {
	_ = ctx

	mid, ok := snap.Mid(s.Symbol)
	if !ok {
		return nil
	}

	inv := book.Inventory(s.Symbol)
	half := mid * s.SpreadBps / 10000
	bid := mid - half
	ask := mid + half

	bidSize, askSize := s.QuoteSize, s.QuoteSize
	if s.SkewFactor != 0 && s.PositionLimit > 0 {
		// Long inventory shrinks the bid and widens the ask (and vice
		// versa) so inventory mean-reverts toward zero.
		skew := s.SkewFactor * inv / s.PositionLimit
		bidSize = clampSize(s.QuoteSize * (1 - skew))
		askSize = clampSize(s.QuoteSize * (1 + skew))
	}

	var orders []Order
	if inv < s.PositionLimit && bidSize > 0 && s.rng.Float64() < s.FillProbability {
		orders = append(orders, Order{Symbol: s.Symbol, Quantity: bidSize, Price: bid, Side: portfolio.Buy})
	}
	if inv > -s.PositionLimit && askSize > 0 && s.rng.Float64() < s.FillProbability {
		orders = append(orders, Order{Symbol: s.Symbol, Quantity: askSize, Price: ask, Side: portfolio.Sell})
	}
	return orders
}

func clampSize(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
