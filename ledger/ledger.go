// Package ledger tracks the cash, positions and P&L of a single
// hedged-option book. Every position change flows through a recorded
// trade; marking to market never touches cash.
package ledger

import (
	"fmt"
	"math"
)

// DefaultEpsilon is the relative tolerance used for conservation checks
// when the config leaves Epsilon unset.
const DefaultEpsilon = 1e-9

// CostModel prices the friction of a single trade.
type CostModel struct {
	PerShare float64 // cost per unit traded
	Fixed    float64 // flat cost per non-zero trade
}

// Cost returns the transaction cost for a signed trade quantity.
// A zero-quantity trade costs exactly nothing.
func (m CostModel) Cost(qty float64) float64 {
	if qty == 0 {
		return 0
	}
	return m.PerShare*math.Abs(qty) + m.Fixed
}

// InsufficientMarginError reports a breach of the configured capital
// floor after a trade settled.
type InsufficientMarginError struct {
	Cash  float64
	Floor float64
}

func (e *InsufficientMarginError) Error() string {
	return fmt.Sprintf("ledger: cash %.2f breached capital floor %.2f", e.Cash, e.Floor)
}

// Config parameterizes a ledger. Numeric constants are per-instance so
// concurrent runs with different settings never interfere.
type Config struct {
	InitialCapital float64
	Multiplier     float64  // shares per option contract; 0 means 1
	Costs          CostModel
	CapitalFloor   *float64 // nil disables the margin check
	Epsilon        float64  // relative tolerance; 0 means DefaultEpsilon
}

// State is an immutable copy of the ledger's balances, safe to embed in
// step records.
type State struct {
	Cash           float64
	Shares         float64
	OptionQty      float64
	CumulativeCost float64
	RealizedPnL    float64
	UnrealizedPnL  float64
}

// Ledger is the mutable account for one run. All arithmetic is plain
// double precision; equality is only ever judged against Epsilon.
type Ledger struct {
	cfg  Config
	mult float64

	cash           float64
	shares         float64
	optionQty      float64
	cumulativeCost float64
	realizedPnL    float64
	unrealizedPnL  float64

	shareBasis  float64 // average execution price of the open share leg
	optionBasis float64 // average premium (multiplier included) of the option leg
}

func New(cfg Config) *Ledger {
	mult := cfg.Multiplier
	if mult == 0 {
		mult = 1
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	return &Ledger{
		cfg:  cfg,
		mult: mult,
		cash: cfg.InitialCapital,
	}
}

// State returns a copy of the current balances.
func (l *Ledger) State() State {
	return State{
		Cash:           l.cash,
		Shares:         l.shares,
		OptionQty:      l.optionQty,
		CumulativeCost: l.cumulativeCost,
		RealizedPnL:    l.realizedPnL,
		UnrealizedPnL:  l.unrealizedPnL,
	}
}

// ApplyShareTrade executes a signed share trade at execPrice.
// Cash moves by -(qty*execPrice + cost); a zero quantity is a no-op.
func (l *Ledger) ApplyShareTrade(qty, execPrice float64) error {
	if qty == 0 {
		return nil
	}
	cost := l.cfg.Costs.Cost(qty)
	l.cash -= qty*execPrice + cost
	l.cumulativeCost += cost
	l.realizedPnL += applyFill(&l.shares, &l.shareBasis, qty, execPrice)
	return l.checkFloor()
}

// ApplyOptionTrade executes a signed option trade at the given
// per-unit premium. The contract multiplier scales the cash flow.
// Option trades carry no transaction cost; the book trades its option
// leg twice per run (open and settle) and the cost model is a share
// friction model.
func (l *Ledger) ApplyOptionTrade(qty, premium float64) error {
	if qty == 0 {
		return nil
	}
	unit := premium * l.mult
	l.cash -= qty * unit
	l.realizedPnL += applyFill(&l.optionQty, &l.optionBasis, qty, unit)
	return l.checkFloor()
}

// MarkToMarket revalues both legs at the given option fair value and
// spot, updating unrealized P&L only. Cash is never mutated here.
func (l *Ledger) MarkToMarket(fairValue, spot float64) {
	l.unrealizedPnL = l.MarkValue(fairValue, spot) - l.basisValue()
}

// MarkValue is the current market value of the open positions.
func (l *Ledger) MarkValue(fairValue, spot float64) float64 {
	return l.shares*spot + l.optionQty*fairValue*l.mult
}

func (l *Ledger) basisValue() float64 {
	return l.shares*l.shareBasis + l.optionQty*l.optionBasis
}

// NetPnL is total economic P&L: realized plus unrealized minus friction.
func (l *Ledger) NetPnL() float64 {
	return l.realizedPnL + l.unrealizedPnL - l.cumulativeCost
}

// CheckConservation verifies the ledger's conservation law at the given
// marks, within the configured relative epsilon:
//
//	cash + mark(position) == initialCapital - cumulativeCost
//	                         + realizedPnL + unrealizedPnL
//
// Cumulative cash flow is the exact sum of the individual trade cash
// flows, so the two sides can only drift apart by float rounding.
func (l *Ledger) CheckConservation(fairValue, spot float64) error {
	lhs := l.cash + l.MarkValue(fairValue, spot)
	rhs := l.cfg.InitialCapital - l.cumulativeCost + l.realizedPnL + l.unrealizedPnL

	scale := math.Max(1, math.Max(math.Abs(lhs), math.Abs(rhs)))
	if math.Abs(lhs-rhs) > l.cfg.Epsilon*scale {
		return fmt.Errorf("ledger: conservation violated: cash+mark=%.12g, expected %.12g", lhs, rhs)
	}
	return nil
}

func (l *Ledger) checkFloor() error {
	if l.cfg.CapitalFloor != nil && l.cash < *l.cfg.CapitalFloor {
		return &InsufficientMarginError{Cash: l.cash, Floor: *l.cfg.CapitalFloor}
	}
	return nil
}

// applyFill folds a signed fill into a signed position with an
// average-cost basis and returns the realized P&L of any closed
// portion. Three cases: extend, reduce, flip through zero.
func applyFill(pos, basis *float64, qty, price float64) float64 {
	p := *pos
	switch {
	case p == 0 || (p > 0) == (qty > 0):
		*basis = (*basis*p + price*qty) / (p + qty)
		*pos = p + qty
		return 0

	case math.Abs(qty) <= math.Abs(p):
		realized := -qty * (price - *basis)
		*pos = p + qty
		if *pos == 0 {
			*basis = 0
		}
		return realized

	default:
		realized := p * (price - *basis)
		*pos = p + qty
		*basis = price
		return realized
	}
}
