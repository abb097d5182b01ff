package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hedgelab/deltahedge/backtest"
	"github.com/hedgelab/deltahedge/config"
	"github.com/hedgelab/deltahedge/hedge"
	"github.com/hedgelab/deltahedge/journal"
	"github.com/hedgelab/deltahedge/pkg/id"
	"github.com/hedgelab/deltahedge/report"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep threshold-band widths over one price path",
	Long: `Sweep runs the configured scenario once per band width, in parallel,
and prints a summary per run. All runs share the same price path so the
band width is the only variable.

Example:
  deltahedge sweep -c simulation.yaml --bands 0.01,0.05,0.1,0.2`,
	RunE: runSweep,
}

var (
	sweepConfigPath string
	sweepBands      []float64
	sweepWorkers    int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&sweepConfigPath, "config", "c", "", "path to config file (required)")
	sweepCmd.Flags().Float64SliceVar(&sweepBands, "bands", []float64{0.01, 0.05, 0.1, 0.2}, "band widths to sweep")
	sweepCmd.Flags().IntVarP(&sweepWorkers, "workers", "w", 0, "max concurrent runs (0 = number of CPUs)")
	sweepCmd.MarkFlagRequired("config")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(sweepConfigPath)
	if err != nil {
		return err
	}
	if cfg.Path.Source == "csv" {
		return fmt.Errorf("sweep needs a synthetic path source (gbm or flat)")
	}

	contract, err := cfg.BuildContract()
	if err != nil {
		return err
	}

	path := buildSyntheticPath(cfg)
	ecfg := cfg.BuildEngineConfig()

	specs := make([]backtest.RunSpec, 0, len(sweepBands))
	for _, band := range sweepBands {
		policy, err := hedge.PolicyByName(hedge.Config{
			Mode:                   "threshold",
			Band:                   band,
			TargetDelta:            cfg.Hedge.TargetDelta,
			ForceLiquidateAtExpiry: cfg.Hedge.ForceLiquidateAtExpiry,
		})
		if err != nil {
			return err
		}
		specs = append(specs, backtest.RunSpec{
			Name:     fmt.Sprintf("band=%g", band),
			Contract: contract,
			Policy:   policy,
			Config:   ecfg,
			Path:     path,
		})
	}

	outcomes, err := backtest.RunAll(context.Background(), specs, sweepWorkers)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	rcfg := report.Config{AnnualizationFactor: cfg.Report.AnnualizationFactor}
	for i, out := range outcomes {
		summary := report.Summarize(out.Result, rcfg)
		report.Print(os.Stdout, out.Name, summary)
		fmt.Printf("State:          %s\n", out.Result.State)
		if out.Result.Err != nil {
			fmt.Fprintf(os.Stderr, "%s aborted: %v\n", out.Name, out.Result.Err)
		}

		if j != nil {
			if err := j.RecordRun(journal.RunRow{
				RunID:         id.New(),
				Created:       time.Now().UTC(),
				Policy:        specs[i].Policy.Name(),
				State:         out.Result.State.String(),
				Steps:         summary.Steps,
				TotalPnL:      summary.TotalPnL,
				PnLVolatility: summary.PnLVolatility,
				MaxDrawdown:   summary.MaxDrawdown,
				Turnover:      summary.Turnover,
				TotalCost:     summary.TotalCost,
				ReturnRatio:   summary.ReturnRatio,
			}); err != nil {
				return fmt.Errorf("journal: %w", err)
			}
		}
	}
	return nil
}
