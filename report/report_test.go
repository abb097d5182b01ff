package report

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/hedgelab/deltahedge/backtest"
	"github.com/stretchr/testify/assert"
)

// records builds a result whose net P&L per step follows pnls, with
// the given trade quantities and a flat cost trail.
func records(pnls, trades []float64) backtest.Result {
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	recs := make([]backtest.StepRecord, len(pnls))
	for i := range pnls {
		recs[i] = backtest.StepRecord{
			Time:        t0.Add(time.Duration(i) * 24 * time.Hour),
			RealizedPnL: pnls[i],
			TradeQty:    trades[i],
		}
	}
	return backtest.Result{Records: recs, State: backtest.Completed}
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize(backtest.Result{}, Config{})
	assert.Equal(t, Summary{}, s)
}

func TestSummarizeTotalsAndTurnover(t *testing.T) {
	t.Parallel()

	res := records(
		[]float64{1, 3, 2, 5},
		[]float64{10, -4, 0, 6},
	)

	s := Summarize(res, Config{})

	assert.Equal(t, 4, s.Steps)
	assert.InDelta(t, 5, s.TotalPnL, 1e-12)
	assert.InDelta(t, 20, s.Turnover, 1e-12)

	// diffs from zero: 1, 2, -1, 3 -> mean 1.25, sample var 35/12... hand check:
	// deviations -0.25, 0.75, -2.25, 1.75; ss = 8.75; var = 8.75/3
	assert.InDelta(t, math.Sqrt(8.75/3), s.PnLVolatility, 1e-12)
}

func TestMaxDrawdownPeakToTrough(t *testing.T) {
	t.Parallel()

	// cumulative P&L path: rises to 10, falls to 2, recovers to 12, dips to 9
	res := records(
		[]float64{4, 10, 6, 2, 12, 9},
		make([]float64, 6),
	)

	s := Summarize(res, Config{})
	assert.InDelta(t, 8, s.MaxDrawdown, 1e-12, "drawdown is peak 10 to trough 2")
}

func TestMaxDrawdownMonotoneRiseIsZero(t *testing.T) {
	t.Parallel()

	res := records([]float64{1, 2, 3, 4}, make([]float64, 4))
	s := Summarize(res, Config{})
	assert.Zero(t, s.MaxDrawdown)
}

func TestReturnRatioUsesAnnualization(t *testing.T) {
	t.Parallel()

	res := records([]float64{1, 3, 2, 5, 4, 8}, make([]float64, 6))

	daily := Summarize(res, Config{AnnualizationFactor: 252})
	weekly := Summarize(res, Config{AnnualizationFactor: 52})

	assert.Greater(t, daily.ReturnRatio, 0.0)
	// ratio scales with sqrt(factor): mean*f / (vol*sqrt(f)) = (mean/vol)*sqrt(f)
	assert.InDelta(t, daily.ReturnRatio/math.Sqrt(252), weekly.ReturnRatio/math.Sqrt(52), 1e-12)
}

func TestReturnRatioZeroVolatility(t *testing.T) {
	t.Parallel()

	// constant step P&L: zero variance must not divide by zero
	res := records([]float64{2, 4, 6, 8}, make([]float64, 4))
	s := Summarize(res, Config{})
	assert.Zero(t, s.ReturnRatio)
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	res := records([]float64{1, -2, 3}, []float64{1, 2, 3})
	before := make([]backtest.StepRecord, len(res.Records))
	copy(before, res.Records)

	_ = Summarize(res, Config{})
	assert.Equal(t, before, res.Records)
}

func TestPrintIncludesHeadline(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Print(&buf, "demo", Summary{TotalPnL: 1.5, Steps: 3})

	out := buf.String()
	assert.Contains(t, out, "Run: demo")
	assert.Contains(t, out, "Total P&L:      1.5000")
}
