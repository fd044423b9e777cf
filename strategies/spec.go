package strategies

import (
	"fmt"
	"math/rand"
	"strings"
)

// Kind identifies one of the fixed set of strategies. The set is closed:
// selection is a tagged variant dispatched by a single exhaustive switch,
// not string-keyed branching scattered through the driver.
type Kind int8

const (
	KindNoop Kind = iota
	KindTriangular
	KindPairs
	KindMarketMaker
)

func (k Kind) String() string {
	switch k {
	case KindNoop:
		return "noop"
	case KindTriangular:
		return "triangular-arbitrage"
	case KindPairs:
		return "pairs-trading"
	case KindMarketMaker:
		return "market-making"
	}
	return fmt.Sprintf("Kind(%d)", int8(k))
}

// KindByName resolves a config-file strategy name. The original system's
// snake_case names are accepted alongside the canonical ones.
func KindByName(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return KindNoop, nil
	case "triangular-arbitrage", "triangular_arbitrage", "triangular":
		return KindTriangular, nil
	case "pairs-trading", "pairs_trading", "pairs":
		return KindPairs, nil
	case "market-making", "market_making", "marketmaker":
		return KindMarketMaker, nil
	}
	return 0, fmt.Errorf("unknown strategy %q (supported: noop, triangular-arbitrage, pairs-trading, market-making)", name)
}

// Kinds lists the selectable strategies in a stable order.
func Kinds() []Kind {
	return []Kind{KindNoop, KindTriangular, KindPairs, KindMarketMaker}
}

// Spec selects one strategy and carries its parameter record. Exactly the
// field matching Kind is consulted; a nil record means defaults.
type Spec struct {
	Kind        Kind
	Triangular  *TriangularParams
	Pairs       *PairsParams
	MarketMaker *MarketMakerParams
}

// Build constructs the configured strategy. The fill model of the market
// maker is the only stochastic element, so it receives an RNG seeded from
// the run config.
func (s Spec) Build(seed int64) (Strategy, error) {
	switch s.Kind {
	case KindNoop:
		return Noop{}, nil

	case KindTriangular:
		p := DefaultTriangularParams()
		if s.Triangular != nil {
			p = *s.Triangular
		}
		return NewTriangular(p), nil

	case KindPairs:
		p := DefaultPairsParams()
		if s.Pairs != nil {
			p = *s.Pairs
		}
		return NewPairs(p), nil

	case KindMarketMaker:
		p := DefaultMarketMakerParams()
		if s.MarketMaker != nil {
			p = *s.MarketMaker
		}
		return NewMarketMaker(p, rand.New(rand.NewSource(seed))), nil

	default:
		return nil, fmt.Errorf("unknown strategy kind %d", s.Kind)
	}
}
