package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deltahedge",
	Short: "A delta-hedging backtest engine for single option positions",
	Long: `Deltahedge simulates hedging an option position against a price path
and reports the resulting P&L profile.

It provides tools for:
  - Black-Scholes pricing and Greeks
  - Periodic and threshold-band rehedging policies
  - Backtests over CSV market data or synthetic GBM paths
  - Parameter sweeps run in parallel
  - Journaling step-level results to SQLite or CSV`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
