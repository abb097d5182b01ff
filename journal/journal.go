// Package journal persists finished simulation runs: one summary row
// per run and one row per simulation step, keyed by a time-sortable
// run ID. The engine never journals mid-run; callers record terminal
// results.
package journal

import "time"

// StepRow mirrors one simulation step record.
type StepRow struct {
	RunID         string
	Seq           int
	Time          time.Time
	Spot          float64
	FairValue     float64
	Delta         float64
	Shares        float64
	OptionQty     float64
	Cash          float64
	RealizedPnL   float64
	UnrealizedPnL float64
	TradeQty      float64
	TradeCost     float64
}

// RunRow mirrors one run summary.
type RunRow struct {
	RunID   string
	Created time.Time
	Policy  string
	State   string
	Steps   int

	TotalPnL      float64
	PnLVolatility float64
	MaxDrawdown   float64
	Turnover      float64
	TotalCost     float64
	ReturnRatio   float64
}

type Journal interface {
	RecordStep(StepRow) error
	RecordRun(RunRow) error
	Close() error
}
