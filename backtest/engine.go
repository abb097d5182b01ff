// Package backtest drives the time-stepped delta-hedging simulation:
// price, decide, trade, mark, record — one ordered pass per run.
package backtest

import (
	"fmt"
	"time"

	"github.com/hedgelab/deltahedge/hedge"
	"github.com/hedgelab/deltahedge/ledger"
	"github.com/hedgelab/deltahedge/market"
	"github.com/hedgelab/deltahedge/options"
)

// State is the engine's lifecycle. Completed and Aborted are terminal.
type State int

const (
	NotStarted State = iota
	Running
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Config parameterizes one run. Constants are per-engine so concurrent
// runs with different settings never interfere.
type Config struct {
	InitialCapital float64
	OptionQty      float64 // signed contracts, opened through the ledger on the first step
	Costs          ledger.CostModel
	CapitalFloor   *float64 // nil disables the margin check
	Epsilon        float64  // ledger tolerance; 0 means ledger.DefaultEpsilon
}

// StepRecord is one appended row of a simulation: snapshot, greeks,
// position and ledger balances after the step settled.
type StepRecord struct {
	Time           time.Time
	Spot           float64
	Greeks         options.Greeks
	Shares         float64
	OptionQty      float64
	Cash           float64
	CumulativeCost float64
	RealizedPnL    float64
	UnrealizedPnL  float64
	TradeQty       float64
	TradeCost      float64
}

// NetPnL is the record's total economic P&L.
func (r StepRecord) NetPnL() float64 {
	return r.RealizedPnL + r.UnrealizedPnL - r.CumulativeCost
}

// Result is the append-only outcome of a run. Aborted runs keep every
// record produced before the failing step, so a failure can be located
// exactly.
type Result struct {
	Records []StepRecord
	State   State
	Err     error
}

// Engine executes a single run as a state machine:
//
//	NotStarted -> Running -> {Completed, Aborted}
//
// One engine, one run: a run is strictly sequential because each step's
// decision depends on the prior step's position. Run engines for
// independent scenarios concurrently instead (see RunAll).
type Engine struct {
	contract options.Contract
	policy   hedge.Policy
	cfg      Config

	state   State
	err     error
	led     *ledger.Ledger
	opened  bool
	last    time.Time
	records []StepRecord
}

func New(contract options.Contract, policy hedge.Policy, cfg Config) *Engine {
	return &Engine{
		contract: contract,
		policy:   policy,
		cfg:      cfg,
		led: ledger.New(ledger.Config{
			InitialCapital: cfg.InitialCapital,
			Multiplier:     contract.Mult(),
			Costs:          cfg.Costs,
			CapitalFloor:   cfg.CapitalFloor,
			Epsilon:        cfg.Epsilon,
		}),
	}
}

func (e *Engine) State() State { return e.state }

// Err returns the abort cause, nil unless State() == Aborted.
func (e *Engine) Err() error { return e.err }

// Records returns the rows appended so far. Callers must not mutate.
func (e *Engine) Records() []StepRecord { return e.records }

// Result snapshots the run outcome.
func (e *Engine) Result() Result {
	return Result{Records: e.records, State: e.state, Err: e.err}
}

// Step advances the run by one snapshot. final marks the last snapshot
// of the path so expiry liquidation can trigger; a snapshot with tau==0
// is treated as final regardless.
//
// A step either appends exactly one record or transitions to Aborted,
// keeping every earlier record. Stepping a terminal engine is a caller
// bug and returns an error without changing state.
func (e *Engine) Step(s market.Snapshot, final bool) error {
	switch e.state {
	case Completed, Aborted:
		return fmt.Errorf("backtest: step on terminal state %s", e.state)
	}
	e.state = Running

	idx := len(e.records)
	if err := s.Validate(); err != nil {
		return e.abort(&market.DataIntegrityError{Index: idx, Reason: err.Error()})
	}
	if e.opened && !s.Time.After(e.last) {
		reason := fmt.Sprintf("timestamp %s not after %s", s.Time.Format(time.RFC3339Nano), e.last.Format(time.RFC3339Nano))
		return e.abort(&market.DataIntegrityError{Index: idx, Reason: reason})
	}

	g, err := options.Price(e.contract, s.Spot, s.Rate, s.Vol, s.Tau)
	if err != nil {
		return e.abort(err)
	}

	// The option position itself enters through the ledger on the
	// first step, at fair value.
	if !e.opened {
		if err := e.led.ApplyOptionTrade(e.cfg.OptionQty, g.FairValue); err != nil {
			return e.abort(err)
		}
		e.opened = true
	}

	final = final || s.Tau == 0

	st := e.led.State()
	qty := e.policy.Decide(hedge.Input{
		Greeks:      g,
		OptionQty:   st.OptionQty,
		HedgeShares: st.Shares,
		Multiplier:  e.contract.Mult(),
		FinalStep:   final,
	})

	costBefore := st.CumulativeCost
	if err := e.led.ApplyShareTrade(qty, s.Spot); err != nil {
		return e.abort(err)
	}

	// At expiry the contract settles at intrinsic value, again through
	// the ledger so position changes stay trade-recorded.
	if s.Tau == 0 {
		if open := e.led.State().OptionQty; open != 0 {
			if err := e.led.ApplyOptionTrade(-open, g.FairValue); err != nil {
				return e.abort(err)
			}
		}
	}

	e.led.MarkToMarket(g.FairValue, s.Spot)
	if err := e.led.CheckConservation(g.FairValue, s.Spot); err != nil {
		return e.abort(err)
	}

	st = e.led.State()
	e.records = append(e.records, StepRecord{
		Time:           s.Time,
		Spot:           s.Spot,
		Greeks:         g,
		Shares:         st.Shares,
		OptionQty:      st.OptionQty,
		Cash:           st.Cash,
		CumulativeCost: st.CumulativeCost,
		RealizedPnL:    st.RealizedPnL,
		UnrealizedPnL:  st.UnrealizedPnL,
		TradeQty:       qty,
		TradeCost:      st.CumulativeCost - costBefore,
	})
	e.last = s.Time
	return nil
}

// Finish moves a Running engine to Completed. Run does this for you;
// it exists for callers driving Step directly over a lazy sequence.
func (e *Engine) Finish() {
	if e.state == Running || e.state == NotStarted {
		e.state = Completed
	}
}

// Run drains the feed. The feed is closed on return. The returned
// error is the abort cause, if any; the Result carries the records
// produced before the failure either way.
func (e *Engine) Run(feed market.Feed) (Result, error) {
	defer feed.Close()

	cur, ok, err := feed.Next()
	if err != nil {
		e.abort(err)
		return e.Result(), e.err
	}
	if !ok {
		e.Finish()
		return e.Result(), nil
	}

	for {
		// one snapshot of lookahead so the final step is known
		next, nextOK, nextErr := feed.Next()
		final := nextErr == nil && !nextOK

		if err := e.Step(cur, final); err != nil {
			return e.Result(), err
		}
		if nextErr != nil {
			e.abort(nextErr)
			return e.Result(), e.err
		}
		if !nextOK {
			e.Finish()
			return e.Result(), nil
		}
		cur = next
	}
}

// RunPath runs over an in-memory snapshot sequence.
func (e *Engine) RunPath(snaps []market.Snapshot) (Result, error) {
	return e.Run(market.NewSliceFeed(snaps))
}

func (e *Engine) abort(err error) error {
	e.state = Aborted
	e.err = err
	return err
}
