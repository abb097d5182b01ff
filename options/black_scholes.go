package options

import (
	"fmt"
	"math"
)

// Greeks holds the fair value and sensitivities of one option unit.
// Values are recomputed from market inputs on every step and never
// treated as a source of truth.
type Greeks struct {
	FairValue float64
	Delta     float64
	Gamma     float64
	Vega      float64
	Theta     float64
	Rho       float64
}

// InvalidInputError reports a pricing input outside the model's domain.
type InvalidInputError struct {
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("options: invalid %s %g", e.Field, e.Value)
}

// Price returns the Black-Scholes fair value and Greeks for one unit of
// the contract. tau is the time to expiry in years.
//
// The function is pure and deterministic. It fails with
// *InvalidInputError when spot <= 0, vol < 0 or tau < 0. Two boundary
// cases bypass the closed form entirely:
//
//   - tau == 0: fair value is intrinsic, delta is the exercise
//     indicator (call: 1 if spot > strike else 0, mirrored for puts),
//     every other Greek is 0.
//   - vol == 0: the terminal spot is deterministic, so fair value is
//     the discounted forward intrinsic and delta the indicator against
//     the discounted strike.
func Price(c Contract, spot, rate, vol, tau float64) (Greeks, error) {
	switch {
	case !(spot > 0): // rejects NaN as well
		return Greeks{}, &InvalidInputError{Field: "spot", Value: spot}
	case vol < 0 || math.IsNaN(vol):
		return Greeks{}, &InvalidInputError{Field: "vol", Value: vol}
	case tau < 0 || math.IsNaN(tau):
		return Greeks{}, &InvalidInputError{Field: "tau", Value: tau}
	case !(c.Strike > 0):
		return Greeks{}, &InvalidInputError{Field: "strike", Value: c.Strike}
	}

	if tau == 0 {
		return expiryGreeks(c, spot), nil
	}
	if vol == 0 {
		return zeroVolGreeks(c, spot, rate, tau), nil
	}

	sqrtTau := math.Sqrt(tau)
	d1 := (math.Log(spot/c.Strike) + (rate+0.5*vol*vol)*tau) / (vol * sqrtTau)
	d2 := d1 - vol*sqrtTau
	disc := math.Exp(-rate * tau)

	var g Greeks
	switch c.Type {
	case Call:
		g.FairValue = spot*normCDF(d1) - c.Strike*disc*normCDF(d2)
		g.Delta = normCDF(d1)
		g.Theta = -spot*vol*normPDF(d1)/(2*sqrtTau) - rate*c.Strike*disc*normCDF(d2)
		g.Rho = c.Strike * tau * disc * normCDF(d2)
	case Put:
		g.FairValue = c.Strike*disc*normCDF(-d2) - spot*normCDF(-d1)
		g.Delta = normCDF(d1) - 1
		g.Theta = -spot*vol*normPDF(d1)/(2*sqrtTau) + rate*c.Strike*disc*normCDF(-d2)
		g.Rho = -c.Strike * tau * disc * normCDF(-d2)
	}
	g.Gamma = normPDF(d1) / (spot * vol * sqrtTau)
	g.Vega = spot * sqrtTau * normPDF(d1)

	return g, nil
}

// expiryGreeks handles tau == 0. At the expiry boundary the option is
// worth exactly its intrinsic value and delta collapses to an exercise
// indicator; gamma, vega, theta and rho are all zero.
func expiryGreeks(c Contract, spot float64) Greeks {
	g := Greeks{FairValue: c.Intrinsic(spot)}
	switch c.Type {
	case Call:
		if spot > c.Strike {
			g.Delta = 1
		}
	case Put:
		if spot < c.Strike {
			g.Delta = -1
		}
	}
	return g
}

// zeroVolGreeks handles vol == 0: the underlying drifts deterministically
// at the risk-free rate, so the option reduces to a discounted forward.
func zeroVolGreeks(c Contract, spot, rate, tau float64) Greeks {
	k := c.Strike * math.Exp(-rate*tau)
	var g Greeks
	switch c.Type {
	case Call:
		g.FairValue = max(spot-k, 0)
		if spot > k {
			g.Delta = 1
		}
	case Put:
		g.FairValue = max(k-spot, 0)
		if spot < k {
			g.Delta = -1
		}
	}
	return g
}

// normCDF is the standard normal CDF. Erfc keeps the tails numerically
// stable, well inside the 1e-7 absolute accuracy required of the model.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
