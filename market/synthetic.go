package market

import (
	"math/rand"
	"sort"
	"time"
)

// SyntheticConfig controls random-walk snapshot generation.
type SyntheticConfig struct {
	Symbols    map[string]float64 // symbol -> starting price
	Steps      int
	Start      time.Time
	Interval   time.Duration
	Drift      float64 // per-step drift, e.g. 0.0001
	Volatility float64 // per-step volatility, e.g. 0.002
	Seed       int64
}

// GenerateSeries produces a geometric random walk per symbol. Output is
// fully determined by the config: identical seeds produce identical series.
func GenerateSeries(cfg SyntheticConfig) []Snapshot {
	if cfg.Steps <= 0 || len(cfg.Symbols) == 0 {
		return nil
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	// Sorted symbol order keeps RNG draws deterministic across runs.
	symbols := sortedSymbols(cfg.Symbols)
	prices := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		prices[sym] = cfg.Symbols[sym]
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	snaps := make([]Snapshot, 0, cfg.Steps)

	for i := 0; i < cfg.Steps; i++ {
		mids := make(map[string]float64, len(symbols))
		for _, sym := range symbols {
			p := prices[sym]
			p *= 1 + cfg.Drift + cfg.Volatility*rng.NormFloat64()
			if p < 1e-6 {
				p = 1e-6
			}
			prices[sym] = p
			mids[sym] = p
		}
		snaps = append(snaps, Snapshot{
			Time: cfg.Start.Add(time.Duration(i) * cfg.Interval),
			Mids: mids,
		})
	}
	return snaps
}

// NewSyntheticFeed generates a series up front and replays it.
func NewSyntheticFeed(cfg SyntheticConfig) *SliceFeed {
	return NewSliceFeed(GenerateSeries(cfg))
}

func sortedSymbols(mids map[string]float64) []string {
	syms := make([]string, 0, len(mids))
	for sym := range mids {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}
