package config

import (
	"github.com/rustyeddy/quantsim/strategies"
)

// BuildSpec decodes the strategy parameter map into the selected
// strategy's typed parameter record. Unrecognized parameters are ignored
// and missing ones keep their documented defaults, so configs written for
// newer or older builds still load.
func (c *Config) BuildSpec() (strategies.Spec, error) {
	kind, err := strategies.KindByName(c.Strategy.Name)
	if err != nil {
		return strategies.Spec{}, err
	}

	params := c.Strategy.Parameters
	spec := strategies.Spec{Kind: kind}

	switch kind {
	case strategies.KindTriangular:
		p := strategies.DefaultTriangularParams()
		getString(params, &p.SymbolA, "symbol_a")
		getString(params, &p.SymbolB, "symbol_b")
		getString(params, &p.SymbolC, "symbol_c")
		getFloat(params, &p.MinProfitBps, "min_profit_bps")
		getFloat(params, &p.FeePerLegBps, "fee_per_leg_bps", "fee_bps")
		getFloat(params, &p.TradeSizeUSD, "trade_size_usd")
		getBool(params, &p.Execute, "execute")
		spec.Triangular = &p

	case strategies.KindPairs:
		p := strategies.DefaultPairsParams()
		getString(params, &p.SymbolA, "symbol_a")
		getString(params, &p.SymbolB, "symbol_b")
		getInt(params, &p.Lookback, "lookback_periods", "lookback")
		getFloat(params, &p.EntryThreshold, "z_entry_threshold", "entry_threshold")
		getFloat(params, &p.ExitThreshold, "z_exit_threshold", "exit_threshold")
		getFloat(params, &p.PositionSize, "position_size")
		spec.Pairs = &p

	case strategies.KindMarketMaker:
		p := strategies.DefaultMarketMakerParams()
		getString(params, &p.Symbol, "symbol")
		getFloat(params, &p.SpreadBps, "spread_bps")
		getFloat(params, &p.PositionLimit, "position_limit")
		getFloat(params, &p.QuoteSize, "quote_size")
		getFloat(params, &p.FillProbability, "fill_probability")
		getFloat(params, &p.SkewFactor, "inventory_skew_factor", "skew_factor")
		spec.MarketMaker = &p
	}

	return spec, nil
}

// The YAML and JSON decoders hand back any of float64/int/int64/uint64 for
// numbers, so the lookups normalize before assigning.

func getFloat(m map[string]any, dst *float64, keys ...string) {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			*dst = n
		case float32:
			*dst = float64(n)
		case int:
			*dst = float64(n)
		case int64:
			*dst = float64(n)
		case uint64:
			*dst = float64(n)
		default:
			continue
		}
		return
	}
}

func getInt(m map[string]any, dst *int, keys ...string) {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int:
			*dst = n
		case int64:
			*dst = int(n)
		case uint64:
			*dst = int(n)
		case float64:
			*dst = int(n)
		default:
			continue
		}
		return
	}
}

func getString(m map[string]any, dst *string, keys ...string) {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			*dst = s
			return
		}
	}
}

func getBool(m map[string]any, dst *bool, keys ...string) {
	for _, key := range keys {
		if b, ok := m[key].(bool); ok {
			*dst = b
			return
		}
	}
}
