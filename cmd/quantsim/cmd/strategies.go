package cmd

import (
	"fmt"

	"github.com/rustyeddy/quantsim/strategies"
	"github.com/spf13/cobra"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available strategies and their default parameters",
	Run: func(cmd *cobra.Command, args []string) {
		for _, kind := range strategies.Kinds() {
			fmt.Println(kind)
			switch kind {
			case strategies.KindTriangular:
				p := strategies.DefaultTriangularParams()
				fmt.Printf("  symbol_a=%s symbol_b=%s symbol_c=%s\n", p.SymbolA, p.SymbolB, p.SymbolC)
				fmt.Printf("  min_profit_bps=%.1f fee_per_leg_bps=%.1f trade_size_usd=%.0f execute=%v\n",
					p.MinProfitBps, p.FeePerLegBps, p.TradeSizeUSD, p.Execute)
			case strategies.KindPairs:
				p := strategies.DefaultPairsParams()
				fmt.Printf("  symbol_a=%s symbol_b=%s lookback_periods=%d\n", p.SymbolA, p.SymbolB, p.Lookback)
				fmt.Printf("  z_entry_threshold=%.1f z_exit_threshold=%.1f position_size=%.1f\n",
					p.EntryThreshold, p.ExitThreshold, p.PositionSize)
			case strategies.KindMarketMaker:
				p := strategies.DefaultMarketMakerParams()
				fmt.Printf("  symbol=%s spread_bps=%.1f position_limit=%.1f\n", p.Symbol, p.SpreadBps, p.PositionLimit)
				fmt.Printf("  quote_size=%.2f fill_probability=%.2f inventory_skew_factor=%.2f\n",
					p.QuoteSize, p.FillProbability, p.SkewFactor)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
