// Package metrics derives performance statistics from an equity history.
// Everything here is a pure function: no state, no side effects.
package metrics

import (
	"math"

	"github.com/rustyeddy/quantsim/portfolio"
)

// DefaultAnnualization is the trading-day convention for Sharpe scaling.
const DefaultAnnualization = 252.0

// Returns computes simple per-step returns from an equity history.
// The first return is always 0.
func Returns(history []portfolio.EquitySnapshot) []float64 {
	if len(history) == 0 {
		return nil
	}
	out := make([]float64, len(history))
	for i := 1; i < len(history); i++ {
		prev := history[i-1].Equity
		if prev == 0 {
			continue
		}
		out[i] = history[i].Equity/prev - 1
	}
	return out
}

// SharpeRatio is mean(r)/std(r) scaled by sqrt(annualization). Fewer than
// two returns, or a zero standard deviation, yield exactly 0 — degenerate
// statistics are a defined zero result, not an error.
func SharpeRatio(returns []float64, annualization float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	if annualization <= 0 {
		annualization = DefaultAnnualization
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	// Sample standard deviation (n-1), matching the rolling z-score math.
	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(returns)-1))
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(annualization)
}

// MaxDrawdown is the most negative peak-to-trough decline relative to the
// running maximum. Always <= 0; exactly 0 when equity never declines.
func MaxDrawdown(history []portfolio.EquitySnapshot) float64 {
	var (
		peak float64
		mdd  float64
	)
	for i, snap := range history {
		if i == 0 || snap.Equity > peak {
			peak = snap.Equity
		}
		if peak <= 0 {
			continue
		}
		dd := (snap.Equity - peak) / peak
		if dd < mdd {
			mdd = dd
		}
	}
	return mdd
}

// Summary is the headline result set consumed by presentation layers.
type Summary struct {
	TotalReturnPct float64
	SharpeRatio    float64
	MaxDrawdownPct float64
	TradeCount     int
	FinalEquity    float64
}

// Summarize folds an equity history and trade count into a Summary.
// With an empty history the final equity is the initial capital and all
// ratios are 0.
func Summarize(history []portfolio.EquitySnapshot, tradeCount int, initialCapital, annualization float64) Summary {
	s := Summary{
		TradeCount:  tradeCount,
		FinalEquity: initialCapital,
	}
	if len(history) == 0 {
		return s
	}

	final := history[len(history)-1].Equity
	s.FinalEquity = final
	if initialCapital != 0 {
		s.TotalReturnPct = (final/initialCapital - 1) * 100
	}
	s.SharpeRatio = SharpeRatio(Returns(history), annualization)
	s.MaxDrawdownPct = MaxDrawdown(history) * 100
	return s
}
