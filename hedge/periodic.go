package hedge

// Periodic rebalances on every step: whatever the deviation, it trades
// net delta exactly back to the target, ignoring transaction costs.
type Periodic struct {
	TargetDelta    float64
	ForceLiquidate bool
}

func (p *Periodic) Name() string { return "periodic" }

func (p *Periodic) Decide(in Input) float64 {
	if p.ForceLiquidate && in.FinalStep {
		return -in.HedgeShares
	}
	return p.TargetDelta - in.NetDelta()
}
