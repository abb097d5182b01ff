package hedge

import "math"

// ThresholdBand models cost-aware behavior: it leaves the book alone
// while |net delta - target| stays within the band, and rebalances all
// the way back to the target once the deviation escapes it.
type ThresholdBand struct {
	Band           float64
	TargetDelta    float64
	ForceLiquidate bool
}

func (p *ThresholdBand) Name() string { return "threshold" }

func (p *ThresholdBand) Decide(in Input) float64 {
	if p.ForceLiquidate && in.FinalStep {
		// band override: drive the share position fully flat
		return -in.HedgeShares
	}

	dev := in.NetDelta() - p.TargetDelta
	if math.Abs(dev) <= p.Band {
		return 0
	}
	return -dev
}
