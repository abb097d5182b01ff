// Package market supplies the option-hedging engine with validated
// price paths: the snapshot data model, replayable feeds and a
// synthetic path generator. All randomness lives here, never in the
// engine.
package market

import (
	"fmt"
	"math"
	"time"
)

// Snapshot is one externally produced observation of the market.
// Snapshots are immutable; a run consumes a sequence with strictly
// increasing timestamps.
type Snapshot struct {
	Time time.Time
	Spot float64
	Rate float64
	Vol  float64
	Tau  float64 // time to expiry, in years
}

// DataIntegrityError reports input that should have been rejected
// upstream: a missing field or a broken timestamp ordering.
type DataIntegrityError struct {
	Index  int
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("market: snapshot %d: %s", e.Index, e.Reason)
}

// Validate checks a single snapshot for missing or malformed fields.
// Domain checks on spot/vol/tau values belong to the pricing model.
func (s Snapshot) Validate() error {
	switch {
	case s.Time.IsZero():
		return fmt.Errorf("missing timestamp")
	case math.IsNaN(s.Spot) || math.IsInf(s.Spot, 0):
		return fmt.Errorf("malformed spot %v", s.Spot)
	case math.IsNaN(s.Rate) || math.IsInf(s.Rate, 0):
		return fmt.Errorf("malformed rate %v", s.Rate)
	case math.IsNaN(s.Vol) || math.IsInf(s.Vol, 0):
		return fmt.Errorf("malformed vol %v", s.Vol)
	case math.IsNaN(s.Tau) || math.IsInf(s.Tau, 0):
		return fmt.Errorf("malformed tau %v", s.Tau)
	}
	return nil
}
