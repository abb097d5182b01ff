package backtest

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hedgelab/deltahedge/hedge"
	"github.com/hedgelab/deltahedge/market"
	"github.com/hedgelab/deltahedge/options"
)

// RunSpec is one independent run of a batch (a parameter-sweep point or
// a scenario path). Specs share no mutable state.
type RunSpec struct {
	Name     string
	Contract options.Contract
	Policy   hedge.Policy
	Config   Config
	Path     []market.Snapshot
}

// RunOutcome pairs a spec name with its terminal result. Outcomes are
// immutable once produced.
type RunOutcome struct {
	Name   string
	Result Result
}

// RunAll executes independent runs concurrently, at most workers at a
// time (0 means GOMAXPROCS-ish: NumCPU). Each run is sequential
// internally; cancellation is cooperative and only checked between
// runs, so any run that started always reaches a terminal state and its
// records stay internally consistent.
//
// Outcomes are collected under a single lock and returned in spec
// order. Aborted runs are still outcomes: their partial records and
// abort cause ride along in the Result. The returned error is non-nil
// only when the batch was cancelled.
func RunAll(ctx context.Context, specs []RunSpec, workers int) ([]RunOutcome, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]RunOutcome, len(specs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			// between-runs cancellation point; never mid-run
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			eng := New(spec.Contract, spec.Policy, spec.Config)
			res, _ := eng.RunPath(spec.Path)

			mu.Lock()
			out[i] = RunOutcome{Name: spec.Name, Result: res}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
