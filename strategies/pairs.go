package strategies

import (
	"context"
	"math"

	"github.com/rustyeddy/quantsim/indicators"
	"github.com/rustyeddy/quantsim/market"
	"github.com/rustyeddy/quantsim/portfolio"
)

// PairsState is the position of the pairs state machine.
type PairsState int8

const (
	Flat PairsState = iota
	ShortSpread    // short A / long B
	LongSpread     // long A / short B
)

func (s PairsState) String() string {
	switch s {
	case Flat:
		return "FLAT"
	case ShortSpread:
		return "SHORT_SPREAD"
	case LongSpread:
		return "LONG_SPREAD"
	}
	return "UNKNOWN"
}

// PairsParams configures mean-reversion trading on the spread A-B.
// EntryThreshold must exceed ExitThreshold to form a hysteresis band;
// that is the caller's responsibility, not enforced here.
type PairsParams struct {
	SymbolA        string
	SymbolB        string
	Lookback       int
	EntryThreshold float64 // z-score to open a spread position
	ExitThreshold  float64 // |z| to unwind back to flat
	PositionSize   float64
}

func DefaultPairsParams() PairsParams {
	return PairsParams{
		SymbolA:        "BTC/USD",
		SymbolB:        "ETH/USD",
		Lookback:       60,
		EntryThreshold: 2.0,
		ExitThreshold:  0.5,
		PositionSize:   1.0,
	}
}

// Pairs trades the z-score of the rolling spread between two correlated
// instruments. State machine: FLAT -> SHORT_SPREAD when z > entry,
// FLAT -> LONG_SPREAD when z < -entry, back to FLAT when |z| < exit.
type Pairs struct {
	PairsParams

	spread *indicators.Rolling
	state  PairsState
}

func NewPairs(p PairsParams) *Pairs {
	if p.Lookback < 2 {
		p.Lookback = 2
	}
	return &Pairs{
		PairsParams: p,
		spread:      indicators.NewRolling(p.Lookback),
	}
}

func (s *Pairs) Name() string { return "pairs-trading" }

func (s *Pairs) Reset() {
	s.spread.Reset()
	s.state = Flat
}

// State returns the current machine state.
func (s *Pairs) State() PairsState { return s.state }

func (s *Pairs) OnSnapshot(ctx context.Context, book Book, snap market.Snapshot) []Order {
	_ = ctx

	priceA, okA := snap.Mid(s.SymbolA)
	priceB, okB := snap.Mid(s.SymbolB)
	if !okA || !okB {
		// Missing leg: skip the step without touching the window, so stale
		// data never contaminates the z-score.
		return nil
	}

	s.spread.Update(priceA - priceB)
	if !s.spread.Ready() {
		return nil
	}

	z := s.spread.ZScore()

	switch s.state {
	case Flat:
		if z > s.EntryThreshold {
			s.state = ShortSpread
			return s.legs(priceA, priceB, portfolio.Sell, portfolio.Buy)
		}
		if z < -s.EntryThreshold {
			s.state = LongSpread
			return s.legs(priceA, priceB, portfolio.Buy, portfolio.Sell)
		}

	case ShortSpread:
		if math.Abs(z) < s.ExitThreshold {
			s.state = Flat
			return s.legs(priceA, priceB, portfolio.Buy, portfolio.Sell)
		}

	case LongSpread:
		if math.Abs(z) < s.ExitThreshold {
			s.state = Flat
			return s.legs(priceA, priceB, portfolio.Sell, portfolio.Buy)
		}
	}

	return nil
}

func (s *Pairs) legs(priceA, priceB float64, sideA, sideB portfolio.Side) []Order {
	return []Order{
		{Symbol: s.SymbolA, Quantity: s.PositionSize, Price: priceA, Side: sideA},
		{Symbol: s.SymbolB, Quantity: s.PositionSize, Price: priceB, Side: sideB},
	}
}
