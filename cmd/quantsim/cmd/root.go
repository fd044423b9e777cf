package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quantsim",
	Short: "A sandbox for evaluating quantitative trading strategies",
	Long: `Quantsim is a backtesting sandbox for quantitative trading strategies.

It provides tools for:
  - Backtesting arbitrage, mean-reversion and market-making strategies
  - Generating synthetic market data series
  - Portfolio accounting with trade and equity journals
  - Performance metrics (Sharpe ratio, max drawdown, equity curves)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
