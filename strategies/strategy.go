package strategies

import (
	"context"

	"github.com/rustyeddy/quantsim/market"
	"github.com/rustyeddy/quantsim/portfolio"
)

// Order is a trade instruction emitted by a strategy. The backtest runner
// applies orders to the ledger in the order emitted; a rejected order
// (insufficient cash or inventory) is dropped, never retried.
type Order struct {
	Symbol   string
	Quantity float64
	Price    float64
	Side     portfolio.Side
}

// Book is the read-only view of the ledger a strategy sees. Strategies
// never mutate the ledger directly; the Order return value is the only
// channel back.
type Book interface {
	Inventory(symbol string) float64
	Cash() float64
}

// Strategy is called once per market snapshot. Reset clears any per-run
// state so one strategy value can drive multiple runs.
type Strategy interface {
	Name() string
	Reset()
	OnSnapshot(ctx context.Context, book Book, snap market.Snapshot) []Order
}

// Noop does nothing. Useful as a baseline run.
type Noop struct{}

func (Noop) Name() string { return "noop" }
func (Noop) Reset()       {}

func (Noop) OnSnapshot(ctx context.Context, book Book, snap market.Snapshot) []Order {
	_ = ctx
	_ = book
	_ = snap
	return nil
}
