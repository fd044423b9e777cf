package cmd

import (
	"context"
	"fmt"

	"github.com/rustyeddy/quantsim/backtest"
	"github.com/rustyeddy/quantsim/config"
	"github.com/rustyeddy/quantsim/journal"
	"github.com/rustyeddy/quantsim/market"
	"github.com/rustyeddy/quantsim/portfolio"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy over recorded or synthetic market data",
	Long: `Backtest feeds an ordered snapshot series through a strategy, applies the
resulting trades to the portfolio ledger and reports performance metrics.

Supported strategies:
  - noop: does nothing (baseline)
  - triangular-arbitrage: detects currency-triangle mispricings
  - pairs-trading: mean-reversion on the spread of two instruments
  - market-making: inventory-aware quoting with a stochastic fill model

Example:
  quantsim backtest --config run.yaml
  quantsim backtest --snapshots data/btc.csv --strategy market-making --seed 7`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btSnapshots  string
	btStrategy   string
	btCapital    float64
	btSeed       int64
	btDBPath     string
	btAllowShort bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to a YAML/JSON run configuration")
	backtestCmd.Flags().StringVarP(&btSnapshots, "snapshots", "t", "", "path to snapshot CSV (time,symbol,mid)")
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "market-making", "strategy name")
	backtestCmd.Flags().Float64VarP(&btCapital, "capital", "b", 100_000, "starting capital")
	backtestCmd.Flags().Int64Var(&btSeed, "seed", 42, "fill-model RNG seed")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", "optional SQLite journal DB path")
	backtestCmd.Flags().BoolVar(&btAllowShort, "allow-short", false, "permit negative net positions")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if cfg.Run.Mode == "live" {
		return fmt.Errorf("live mode needs an external snapshot producer; wire one to market.ChannelFeed")
	}

	spec, err := cfg.BuildSpec()
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	strat, err := spec.Build(cfg.Run.Seed)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	feed, err := buildFeed(cfg)
	if err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	var opts []portfolio.Option
	if cfg.Account.AllowShort {
		opts = append(opts, portfolio.WithAllowShort(true))
	}
	j, err := buildJournal(cfg)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if j != nil {
		defer j.Close()
		opts = append(opts, portfolio.WithJournal(j))
	}

	runner := &backtest.Runner{
		Ledger:   portfolio.New(cfg.Account.InitialCapital, opts...),
		Feed:     feed,
		Strategy: strat,
	}

	fmt.Printf("Running backtest with strategy: %s\n\n", strat.Name())

	res, err := runner.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	fmt.Printf("Backtest Complete!\n")
	fmt.Printf("  Steps: %d (%s .. %s)\n", res.Steps, res.Start.Format("2006-01-02 15:04:05"), res.End.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Trades: %d (%d rejected)\n", res.Summary.TradeCount, res.Rejected)
	fmt.Printf("  Final Equity: $%.2f\n", res.Summary.FinalEquity)
	fmt.Printf("  Total Return: %.2f%%\n", res.Summary.TotalReturnPct)
	fmt.Printf("  Sharpe Ratio: %.2f\n", res.Summary.SharpeRatio)
	fmt.Printf("  Max Drawdown: %.2f%%\n", res.Summary.MaxDrawdownPct)

	return nil
}

// loadRunConfig merges a config file, when given, with flag overrides.
func loadRunConfig() (*config.Config, error) {
	if btConfigPath != "" {
		return config.LoadFromFile(btConfigPath)
	}

	cfg := config.Default()
	cfg.Strategy.Name = btStrategy
	cfg.Account.InitialCapital = btCapital
	cfg.Account.AllowShort = btAllowShort
	cfg.Run.Seed = btSeed
	if btSnapshots != "" {
		cfg.Data = config.DataConfig{Source: "csv", Path: btSnapshots}
	}
	if btDBPath != "" {
		cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: btDBPath}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildFeed(cfg *config.Config) (market.Feed, error) {
	switch cfg.Data.Source {
	case "csv":
		return market.NewCSVFeed(cfg.Data.Path)
	case "synthetic":
		interval, err := cfg.Data.ParseInterval()
		if err != nil {
			return nil, err
		}
		return market.NewSyntheticFeed(market.SyntheticConfig{
			Symbols:    cfg.Data.Symbols,
			Steps:      cfg.Data.Steps,
			Interval:   interval,
			Drift:      cfg.Data.Drift,
			Volatility: cfg.Data.Volatility,
			Seed:       cfg.Data.Seed,
		}), nil
	}
	return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
}

func buildJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
}
