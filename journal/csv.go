package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal writes steps and run summaries to two CSV files.
type CSVJournal struct {
	steps *csv.Writer
	runs  *csv.Writer
	sf    *os.File
	rf    *os.File
}

func NewCSV(stepsPath, runsPath string) (*CSVJournal, error) {
	sf, err := os.Create(stepsPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(runsPath)
	if err != nil {
		sf.Close()
		return nil, err
	}

	sw := csv.NewWriter(sf)
	rw := csv.NewWriter(rf)

	if err := sw.Write([]string{"run_id", "seq", "time", "spot", "fair_value", "delta", "shares", "option_qty", "cash", "realized_pnl", "unrealized_pnl", "trade_qty", "trade_cost"}); err != nil {
		return nil, err
	}
	if err := rw.Write([]string{"run_id", "created", "policy", "state", "steps", "total_pnl", "pnl_volatility", "max_drawdown", "turnover", "total_cost", "return_ratio"}); err != nil {
		return nil, err
	}

	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}
	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{steps: sw, runs: rw, sf: sf, rf: rf}, nil
}

func (j *CSVJournal) RecordStep(s StepRow) error {
	err := j.steps.Write([]string{
		s.RunID,
		strconv.Itoa(s.Seq),
		s.Time.Format(time.RFC3339),
		f(s.Spot),
		f(s.FairValue),
		f(s.Delta),
		f(s.Shares),
		f(s.OptionQty),
		f(s.Cash),
		f(s.RealizedPnL),
		f(s.UnrealizedPnL),
		f(s.TradeQty),
		f(s.TradeCost),
	})
	if err != nil {
		return err
	}
	j.steps.Flush()
	return j.steps.Error()
}

func (j *CSVJournal) RecordRun(r RunRow) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Policy,
		r.State,
		strconv.Itoa(r.Steps),
		f(r.TotalPnL),
		f(r.PnLVolatility),
		f(r.MaxDrawdown),
		f(r.Turnover),
		f(r.TotalCost),
		f(r.ReturnRatio),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) Close() error {
	j.steps.Flush()
	j.runs.Flush()
	err := j.sf.Close()
	if cerr := j.rf.Close(); err == nil {
		err = cerr
	}
	return err
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
