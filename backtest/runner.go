package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/quantsim/market"
	"github.com/rustyeddy/quantsim/metrics"
	"github.com/rustyeddy/quantsim/portfolio"
	"github.com/rustyeddy/quantsim/strategies"
)

// Runner drives a ledger forward using a feed and a strategy: one strategy
// call per snapshot, orders applied in emitted order, then an unconditional
// mark-to-market with that snapshot's prices.
//
// Exactly one ledger per run, owned by the runner; the run is a synchronous
// fold over the feed and must stay on one goroutine.
type Runner struct {
	Ledger   *portfolio.Ledger
	Feed     market.Feed
	Strategy strategies.Strategy

	// Annualization overrides the Sharpe scaling factor; 0 means the
	// trading-day default of 252.
	Annualization float64
}

// Result accumulates everything a presentation layer consumes.
type Result struct {
	Trades   []portfolio.TradeRecord
	Equity   []portfolio.EquitySnapshot
	Summary  metrics.Summary
	Steps    int
	Rejected int
	Start    time.Time
	End      time.Time
}

// Run executes the backtest loop until the feed is exhausted or ctx is
// cancelled between steps. Rejected trades are counted and dropped; no
// step is ever aborted by one.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Ledger == nil {
		return Result{}, fmt.Errorf("backtest: Ledger is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	defer r.Feed.Close()

	r.Strategy.Reset()

	var res Result

	for {
		// Cancellation is only observed between steps; a step in flight
		// always completes its mark-to-market.
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		snap, ok, err := r.Feed.Next()
		if err != nil {
			return Result{}, err
		}
		if !ok {
			break
		}

		if res.Start.IsZero() || snap.Time.Before(res.Start) {
			res.Start = snap.Time
		}
		if res.End.IsZero() || snap.Time.After(res.End) {
			res.End = snap.Time
		}

		orders := r.Strategy.OnSnapshot(ctx, r.Ledger, snap)
		for _, o := range orders {
			if !r.Ledger.ExecuteTrade(o.Symbol, o.Quantity, o.Price, o.Side, snap.Time) {
				res.Rejected++
			}
		}

		r.Ledger.MarkToMarket(snap.Mids, snap.Time)
		res.Steps++
	}

	ann := r.Annualization
	if ann <= 0 {
		ann = metrics.DefaultAnnualization
	}

	res.Trades = r.Ledger.Trades()
	res.Equity = r.Ledger.EquityHistory()
	res.Summary = metrics.Summarize(res.Equity, len(res.Trades), r.Ledger.InitialCash(), ann)

	return res, nil
}
