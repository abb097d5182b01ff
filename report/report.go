// Package report aggregates a finished simulation into summary risk
// and performance statistics. It only ever reads the record sequence.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/hedgelab/deltahedge/backtest"
)

// DefaultAnnualization assumes one step per trading day.
const DefaultAnnualization = 252

// Config carries the reporter's numeric constants. They are explicit
// per-call so concurrent summaries with different factors cannot
// interfere.
type Config struct {
	AnnualizationFactor float64 // steps per year; 0 means DefaultAnnualization
}

func (c Config) factor() float64 {
	if c.AnnualizationFactor > 0 {
		return c.AnnualizationFactor
	}
	return DefaultAnnualization
}

// Summary is the aggregate outcome of one run.
type Summary struct {
	TotalPnL      float64 // final net P&L
	PnLVolatility float64 // sample stddev of step-to-step P&L changes
	MaxDrawdown   float64 // largest peak-to-trough decline of cumulative P&L
	Turnover      float64 // sum of |trade quantity|
	TotalCost     float64 // cumulative transaction cost
	ReturnRatio   float64 // annualized mean step P&L over annualized volatility
	Steps         int
}

// Summarize reduces a result's records to a Summary. The input is not
// mutated; an empty or never-started run yields a zero Summary.
func Summarize(res backtest.Result, cfg Config) Summary {
	recs := res.Records
	if len(recs) == 0 {
		return Summary{}
	}

	s := Summary{Steps: len(recs)}

	prev := 0.0
	peak := 0.0
	var diffs []float64
	for _, rec := range recs {
		pnl := rec.NetPnL()
		diffs = append(diffs, pnl-prev)
		prev = pnl

		if pnl > peak {
			peak = pnl
		}
		if dd := peak - pnl; dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
		}

		s.Turnover += math.Abs(rec.TradeQty)
	}

	last := recs[len(recs)-1]
	s.TotalPnL = last.NetPnL()
	s.TotalCost = last.CumulativeCost
	s.PnLVolatility = stddev(diffs)

	factor := cfg.factor()
	annVol := s.PnLVolatility * math.Sqrt(factor)
	if annVol > 0 {
		annReturn := mean(diffs) * factor
		s.ReturnRatio = annReturn / annVol
	}

	return s
}

// Print writes a human-readable summary block, in the style of the
// run reports the CLI emits.
func Print(w io.Writer, name string, s Summary) {
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, " Run: %s\n", name)
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Steps:          %d\n", s.Steps)
	fmt.Fprintf(w, "Total P&L:      %.4f\n", s.TotalPnL)
	fmt.Fprintf(w, "P&L Volatility: %.4f\n", s.PnLVolatility)
	fmt.Fprintf(w, "Max Drawdown:   %.4f\n", s.MaxDrawdown)
	fmt.Fprintf(w, "Turnover:       %.4f\n", s.Turnover)
	fmt.Fprintf(w, "Total Cost:     %.4f\n", s.TotalCost)
	fmt.Fprintf(w, "Return Ratio:   %.4f\n", s.ReturnRatio)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
