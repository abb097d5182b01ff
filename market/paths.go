package market

import (
	"math"
	"math/rand"
	"time"
)

// PathConfig parameterizes a synthetic price path ending exactly at
// expiry: the path has Steps+1 snapshots and tau decays from Steps*Dt
// down to 0.
type PathConfig struct {
	Spot       float64       // initial spot
	Rate       float64       // risk-free rate stamped on every snapshot
	Drift      float64       // annual drift of the generated path
	Vol        float64       // annualized realized volatility of the path
	ImpliedVol float64       // vol stamped on snapshots; 0 means Vol
	Steps      int           // number of time steps
	Dt         float64       // years per step, e.g. 1.0/365
	Start      time.Time     // timestamp of the first snapshot
	Interval   time.Duration // wall-clock spacing; 0 derives it from Dt
}

func (cfg PathConfig) impliedVol() float64 {
	if cfg.ImpliedVol != 0 {
		return cfg.ImpliedVol
	}
	return cfg.Vol
}

func (cfg PathConfig) interval() time.Duration {
	if cfg.Interval != 0 {
		return cfg.Interval
	}
	// Dt years expressed as wall-clock time
	return time.Duration(cfg.Dt * 365 * 24 * float64(time.Hour))
}

func (cfg PathConfig) start() time.Time {
	if !cfg.Start.IsZero() {
		return cfg.Start
	}
	return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
}

// GBM generates a geometric Brownian motion path. The same seed always
// produces the identical sequence, so runs over generated paths stay
// fully replayable; the engine itself never draws randomness.
func GBM(cfg PathConfig, seed int64) []Snapshot {
	rng := rand.New(rand.NewSource(seed))

	iv := cfg.impliedVol()
	start := cfg.start()
	interval := cfg.interval()

	snaps := make([]Snapshot, 0, cfg.Steps+1)
	spot := cfg.Spot
	for i := 0; i <= cfg.Steps; i++ {
		snaps = append(snaps, Snapshot{
			Time: start.Add(time.Duration(i) * interval),
			Spot: spot,
			Rate: cfg.Rate,
			Vol:  iv,
			Tau:  cfg.Dt * float64(cfg.Steps-i),
		})
		if i < cfg.Steps {
			z := rng.NormFloat64()
			spot *= math.Exp((cfg.Drift-0.5*cfg.Vol*cfg.Vol)*cfg.Dt + cfg.Vol*math.Sqrt(cfg.Dt)*z)
		}
	}
	return snaps
}

// Flat generates a constant-spot path with the same tau/timestamp
// structure as GBM. Useful for decay-only scenarios.
func Flat(cfg PathConfig) []Snapshot {
	iv := cfg.impliedVol()
	start := cfg.start()
	interval := cfg.interval()

	snaps := make([]Snapshot, 0, cfg.Steps+1)
	for i := 0; i <= cfg.Steps; i++ {
		snaps = append(snaps, Snapshot{
			Time: start.Add(time.Duration(i) * interval),
			Spot: cfg.Spot,
			Rate: cfg.Rate,
			Vol:  iv,
			Tau:  cfg.Dt * float64(cfg.Steps-i),
		})
	}
	return snaps
}
