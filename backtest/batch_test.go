package backtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/hedgelab/deltahedge/hedge"
	"github.com/hedgelab/deltahedge/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepSpecs(t *testing.T) []RunSpec {
	t.Helper()

	path := market.GBM(market.PathConfig{
		Spot: 100, Vol: 0.2, Steps: 30, Dt: 1.0 / 365,
	}, 11)

	bands := []float64{0, 0.05, 0.1, 0.25, 0.5}
	specs := make([]RunSpec, 0, len(bands))
	for _, band := range bands {
		specs = append(specs, RunSpec{
			Name:     fmt.Sprintf("band=%.2f", band),
			Contract: callContract(100),
			Policy:   &hedge.ThresholdBand{Band: band, ForceLiquidate: true},
			Config:   Config{InitialCapital: 10_000, OptionQty: -1},
			Path:     path,
		})
	}
	return specs
}

func TestRunAllKeepsSpecOrder(t *testing.T) {
	t.Parallel()

	specs := sweepSpecs(t)
	outcomes, err := RunAll(context.Background(), specs, 3)
	require.NoError(t, err)
	require.Len(t, outcomes, len(specs))

	for i, o := range outcomes {
		assert.Equal(t, specs[i].Name, o.Name)
		assert.Equal(t, Completed, o.Result.State)
		assert.Len(t, o.Result.Records, len(specs[i].Path))
	}
}

func TestRunAllDeterministicAcrossWorkers(t *testing.T) {
	t.Parallel()

	specs := sweepSpecs(t)

	serial, err := RunAll(context.Background(), specs, 1)
	require.NoError(t, err)
	parallel, err := RunAll(context.Background(), specs, 8)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel, "worker count must not affect results")
}

func TestRunAllAbortedRunStillCollected(t *testing.T) {
	t.Parallel()

	specs := sweepSpecs(t)
	// corrupt one spec's path without touching the shared one
	bad := make([]market.Snapshot, len(specs[2].Path))
	copy(bad, specs[2].Path)
	bad[4].Time = bad[3].Time
	specs[2].Path = bad

	outcomes, err := RunAll(context.Background(), specs, 4)
	require.NoError(t, err, "an aborted run is an outcome, not a batch failure")

	assert.Equal(t, Aborted, outcomes[2].Result.State)
	assert.Error(t, outcomes[2].Result.Err)
	assert.Len(t, outcomes[2].Result.Records, 4)

	for i, o := range outcomes {
		if i == 2 {
			continue
		}
		assert.Equal(t, Completed, o.Result.State)
	}
}

func TestRunAllCooperativeCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunAll(ctx, sweepSpecs(t), 2)
	require.ErrorIs(t, err, context.Canceled)
}
