// Package generate orchestrates the full skeleton pipeline: spread drawing,
// beat generation, coherence scoring and optional evolutionary refinement
// over a whole batch.
package generate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"fabula/internal/evo"
	"fabula/internal/markov"
	"fabula/internal/model"
	"fabula/internal/seed"
	"fabula/internal/solver"
	"fabula/internal/spread"
)

// Pipeline wires the generative engines into a batch producer.
type Pipeline struct {
	spreads   *spread.Engine
	chain     *markov.Chain
	solver    *solver.Solver
	evolution *evo.Engine
}

// NewPipeline builds a pipeline. All collaborators are required.
func NewPipeline(spreads *spread.Engine, chain *markov.Chain, s *solver.Solver, evolution *evo.Engine) (*Pipeline, error) {
	if spreads == nil {
		return nil, errors.New("spread engine is required")
	}
	if chain == nil {
		return nil, errors.New("markov chain is required")
	}
	if s == nil {
		return nil, errors.New("constraint solver is required")
	}
	if evolution == nil {
		return nil, errors.New("evolution engine is required")
	}
	return &Pipeline{spreads: spreads, chain: chain, solver: s, evolution: evolution}, nil
}

// GenerateBatch produces cfg.Skeletons scored skeletons, refined by the
// evolution engine when enabled, sorted by coherence score best-first.
//
// Each skeleton derives its own child generator from the seed manager, so
// results are identical for a given master seed regardless of the worker
// count.
func (p *Pipeline) GenerateBatch(ctx context.Context, cfg model.GenerationConfig, seeds *seed.Manager) ([]*model.StorySkeleton, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if seeds == nil {
		return nil, errors.New("seed manager is required")
	}

	skeletons := make([]*model.StorySkeleton, cfg.Skeletons)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i := 0; i < cfg.Skeletons; i++ {
		i := i
		rng := seeds.ChildRNG(fmt.Sprintf("skeleton_%d", i))
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			skeleton, err := p.GenerateSingle(cfg, rng)
			if err != nil {
				return fmt.Errorf("skeleton %d: %w", i, err)
			}
			skeletons[i] = skeleton
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if cfg.Evolution.Enabled && cfg.Evolution.Generations > 0 {
		result, err := p.evolution.Evolve(skeletons, cfg.Evolution, seeds.ChildRNG("evolution"))
		if err != nil {
			return nil, fmt.Errorf("evolutionary refinement: %w", err)
		}
		skeletons = result.Population
	}

	sort.SliceStable(skeletons, func(i, j int) bool {
		return skeletons[i].CoherenceScore() > skeletons[j].CoherenceScore()
	})
	return skeletons, nil
}

// GenerateSingle produces one scored skeleton: a random spread type is
// drawn, positions fill from the catalogue, beats come from the markov
// chain, and the solver writes the coherence score. Sub-stages run on
// generators split off the skeleton generator, so stage order stays
// reproducible.
func (p *Pipeline) GenerateSingle(cfg model.GenerationConfig, rng *rand.Rand) (*model.StorySkeleton, error) {
	spreadTypes := cfg.SpreadTypes
	if len(spreadTypes) == 0 {
		spreadTypes = p.spreads.SpreadTypes()
	}
	spreadType := spreadTypes[rng.Intn(len(spreadTypes))]

	spreadRNG := rand.New(rand.NewSource(rng.Int63()))
	skeleton, err := p.spreads.GenerateSkeleton(spreadType, nil, spreadRNG)
	if err != nil {
		return nil, err
	}

	beatRNG := rand.New(rand.NewSource(rng.Int63()))
	skeleton.Beats = p.chain.GenerateSequence(beatRNG, cfg.MinBeats, cfg.MaxBeats, nil)
	skeleton.Stats.BeatCount = len(skeleton.Beats)

	p.solver.ScoreAndUpdate(skeleton)
	skeleton.Seed = rng.Int63()
	return skeleton, nil
}
