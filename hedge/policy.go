// Package hedge decides how many shares of the underlying to trade so
// an options book stays delta-neutral.
package hedge

import (
	"fmt"
	"strings"

	"github.com/hedgelab/deltahedge/options"
)

// Input is everything a policy may look at for one decision. Policies
// are pure: same input, same answer, no side effects.
type Input struct {
	Greeks      options.Greeks
	OptionQty   float64 // signed contracts held
	HedgeShares float64 // signed shares held
	Multiplier  float64 // shares per contract
	FinalStep   bool    // last snapshot of the run
}

// NetDelta is the book's share-equivalent exposure: option delta scaled
// by position and multiplier, plus the existing hedge.
func (in Input) NetDelta() float64 {
	return in.Greeks.Delta*in.OptionQty*in.Multiplier + in.HedgeShares
}

// Policy is the single capability the engine composes in by reference.
// Decide returns the signed share quantity to trade; 0 means no action.
type Policy interface {
	Name() string
	Decide(in Input) float64
}

// Config is the wire/config representation of a policy.
type Config struct {
	Mode                   string  `json:"mode" yaml:"mode"`
	Band                   float64 `json:"band,omitempty" yaml:"band,omitempty"`
	TargetDelta            float64 `json:"target_delta,omitempty" yaml:"target_delta,omitempty"`
	ForceLiquidateAtExpiry bool    `json:"force_liquidate_at_expiry,omitempty" yaml:"force_liquidate_at_expiry,omitempty"`
}

// PolicyByName builds a policy from config.
func PolicyByName(cfg Config) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "periodic":
		return &Periodic{
			TargetDelta:    cfg.TargetDelta,
			ForceLiquidate: cfg.ForceLiquidateAtExpiry,
		}, nil

	case "threshold", "threshold-band", "band":
		if cfg.Band < 0 {
			return nil, fmt.Errorf("hedge: band must be >= 0, got %g", cfg.Band)
		}
		return &ThresholdBand{
			Band:           cfg.Band,
			TargetDelta:    cfg.TargetDelta,
			ForceLiquidate: cfg.ForceLiquidateAtExpiry,
		}, nil

	default:
		return nil, fmt.Errorf("hedge: unknown policy %q (supported: periodic, threshold)", cfg.Mode)
	}
}
