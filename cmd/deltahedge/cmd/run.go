package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hedgelab/deltahedge/backtest"
	"github.com/hedgelab/deltahedge/config"
	"github.com/hedgelab/deltahedge/journal"
	"github.com/hedgelab/deltahedge/market"
	"github.com/hedgelab/deltahedge/pkg/id"
	"github.com/hedgelab/deltahedge/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single hedging simulation",
	Long: `Run one simulation from a configuration file: price the option along
the configured path, rehedge with the configured policy, and print the
run's risk summary.

Example:
  deltahedge run -c simulation.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to config file (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return err
	}

	contract, err := cfg.BuildContract()
	if err != nil {
		return err
	}
	policy, err := cfg.BuildPolicy()
	if err != nil {
		return err
	}

	engine := backtest.New(contract, policy, cfg.BuildEngineConfig())

	var result backtest.Result
	if cfg.Path.Source == "csv" {
		feed, err := market.NewCSVFeed(cfg.Path.File)
		if err != nil {
			return fmt.Errorf("open market data: %w", err)
		}
		defer feed.Close()
		result, err = engine.Run(feed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run aborted: %v\n", err)
		}
	} else {
		path := buildSyntheticPath(cfg)
		result, err = engine.RunPath(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run aborted: %v\n", err)
		}
	}

	summary := report.Summarize(result, report.Config{
		AnnualizationFactor: cfg.Report.AnnualizationFactor,
	})

	runID := id.New()
	report.Print(os.Stdout, runID, summary)
	fmt.Printf("State:          %s\n", result.State)

	if err := journalResult(cfg, runID, policy.Name(), result, summary); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	return nil
}

func buildSyntheticPath(cfg *config.Config) []market.Snapshot {
	pc := market.PathConfig{
		Spot:       cfg.Path.Spot,
		Rate:       cfg.Path.Rate,
		Drift:      cfg.Path.Drift,
		Vol:        cfg.Path.Vol,
		ImpliedVol: cfg.Path.ImpliedVol,
		Steps:      cfg.Path.Steps,
		Dt:         cfg.Path.Dt,
	}
	if cfg.Path.Source == "flat" {
		return market.Flat(pc)
	}
	return market.GBM(pc, cfg.Path.Seed)
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(cfg.Journal.StepsFile, cfg.Journal.RunsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
}

func journalResult(cfg *config.Config, runID, policyName string, result backtest.Result, summary report.Summary) error {
	j, err := openJournal(cfg)
	if err != nil || j == nil {
		return err
	}
	defer j.Close()

	for seq, rec := range result.Records {
		row := journal.StepRow{
			RunID:         runID,
			Seq:           seq,
			Time:          rec.Time,
			Spot:          rec.Spot,
			FairValue:     rec.Greeks.FairValue,
			Delta:         rec.Greeks.Delta,
			Shares:        rec.Shares,
			OptionQty:     rec.OptionQty,
			Cash:          rec.Cash,
			RealizedPnL:   rec.RealizedPnL,
			UnrealizedPnL: rec.UnrealizedPnL,
			TradeQty:      rec.TradeQty,
			TradeCost:     rec.TradeCost,
		}
		if err := j.RecordStep(row); err != nil {
			return err
		}
	}

	return j.RecordRun(journal.RunRow{
		RunID:         runID,
		Created:       time.Now().UTC(),
		Policy:        policyName,
		State:         result.State.String(),
		Steps:         summary.Steps,
		TotalPnL:      summary.TotalPnL,
		PnLVolatility: summary.PnLVolatility,
		MaxDrawdown:   summary.MaxDrawdown,
		Turnover:      summary.Turnover,
		TotalCost:     summary.TotalCost,
		ReturnRatio:   summary.ReturnRatio,
	})
}
