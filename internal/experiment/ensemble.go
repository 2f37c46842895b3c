package experiment

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent copies of one configuration, each with its own
// spawn seed. Runs share nothing, so they execute concurrently.
type Ensemble struct {
	base      Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(base Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	if e.base.Sim == nil {
		return nil, ErrNoConfig
	}
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		cfg := e.base
		simCfg := *e.base.Sim
		simCfg.Spawn.Seed = e.seedStart + int64(i)
		cfg.Sim = &simCfg
		cfg.Name = fmt.Sprintf("%s#%d", e.base.Name, i)
		if e.base.Scenario != nil {
			sc := *e.base.Scenario
			cfg.Scenario = &sc
		}

		g.Go(func() error {
			exp, err := New(cfg)
			if err != nil {
				return err
			}
			results[i], err = exp.Run(ctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
