package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathCfg() PathConfig {
	return PathConfig{
		Spot:  100,
		Rate:  0.02,
		Drift: 0.02,
		Vol:   0.2,
		Steps: 30,
		Dt:    1.0 / 365,
	}
}

func TestGBMDeterministicBySeed(t *testing.T) {
	t.Parallel()

	a := GBM(pathCfg(), 7)
	b := GBM(pathCfg(), 7)
	c := GBM(pathCfg(), 8)

	assert.Equal(t, a, b, "same seed must reproduce the identical path")
	assert.NotEqual(t, a, c, "different seeds should diverge")
}

func TestGBMStructure(t *testing.T) {
	t.Parallel()

	cfg := pathCfg()
	snaps := GBM(cfg, 1)

	require.Len(t, snaps, cfg.Steps+1)
	assert.InDelta(t, cfg.Spot, snaps[0].Spot, 1e-12)
	assert.Zero(t, snaps[len(snaps)-1].Tau, "path must end exactly at expiry")

	for i, s := range snaps {
		require.NoError(t, s.Validate())
		assert.Greater(t, s.Spot, 0.0)
		if i > 0 {
			prev := snaps[i-1]
			assert.True(t, s.Time.After(prev.Time), "timestamps must strictly increase")
			assert.Less(t, s.Tau, prev.Tau, "tau must strictly decay")
		}
	}
}

func TestGBMImpliedVolOverride(t *testing.T) {
	t.Parallel()

	cfg := pathCfg()
	cfg.ImpliedVol = 0.35
	snaps := GBM(cfg, 1)

	for _, s := range snaps {
		assert.InDelta(t, 0.35, s.Vol, 1e-12)
	}
}

func TestFlatPath(t *testing.T) {
	t.Parallel()

	cfg := pathCfg()
	snaps := Flat(cfg)

	require.Len(t, snaps, cfg.Steps+1)
	for _, s := range snaps {
		assert.Equal(t, cfg.Spot, s.Spot)
	}
	assert.Zero(t, snaps[len(snaps)-1].Tau)
}
