package options

import (
	"fmt"
	"strings"
	"time"
)

// OptionType selects between a call and a put.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("OptionType(%d)", int(t))
}

// ParseOptionType accepts "call" or "put" (case-insensitive).
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return Call, fmt.Errorf("unknown option type %q (supported: call, put)", s)
}

// Contract describes a single European-style option. It is immutable:
// the engine is handed one contract per run and never mutates it.
type Contract struct {
	Strike     float64
	Expiry     time.Time
	Type       OptionType
	Multiplier float64 // shares per contract, e.g. 100 for US equity options
}

// Mult returns the contract multiplier, defaulting to 1 when unset.
func (c Contract) Mult() float64 {
	if c.Multiplier == 0 {
		return 1
	}
	return c.Multiplier
}

// Intrinsic returns the exercise value of one option unit at the given spot.
func (c Contract) Intrinsic(spot float64) float64 {
	switch c.Type {
	case Put:
		return max(c.Strike-spot, 0)
	default:
		return max(spot-c.Strike, 0)
	}
}
