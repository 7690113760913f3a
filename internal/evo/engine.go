// Package evo implements the evolutionary optimizer for story skeletons:
// selection, crossover, mutation, wild-card injection and novelty scoring
// over a population scored by the constraint solver.
package evo

import (
	"errors"
	"math/rand"
	"sort"

	"fabula/internal/catalogue"
	"fabula/internal/model"
	"fabula/internal/solver"
)

// Engine breeds a population of skeletons over multiple generations using
// selection, crossover, mutation and occasional wild-card injection.
type Engine struct {
	solver    *solver.Solver
	catalogue *catalogue.Catalogue
	wildCards []model.WildCard
}

// NewEngine builds an evolution engine. The wild-card list may be empty, in
// which case injection degrades to a no-op.
func NewEngine(s *solver.Solver, cat *catalogue.Catalogue, wildCards []model.WildCard) (*Engine, error) {
	if s == nil {
		return nil, errors.New("constraint solver is required")
	}
	if cat == nil {
		return nil, errors.New("catalogue is required")
	}
	return &Engine{
		solver:    s,
		catalogue: cat,
		wildCards: append([]model.WildCard(nil), wildCards...),
	}, nil
}

// Evolve runs the generational loop over the population. Per generation:
//
//  1. score every skeleton and sort the population best-first
//  2. record the best score in the fitness history
//  3. breed len(population)/2 pairings into offspring
//  4. replace the weakest individuals with the offspring (no re-sort)
//  5. stamp every individual with the generation number
//
// Skeletons are mutated in place; survivors keep their identity across
// generations. The returned population is the final, re-scored, sorted one.
func (e *Engine) Evolve(population []*model.StorySkeleton, cfg model.EvolutionConfig, rng *rand.Rand) (model.EvolutionResult, error) {
	if err := cfg.Validate(); err != nil {
		return model.EvolutionResult{}, err
	}
	method := cfg.SelectionMethod
	if method == "" {
		method = model.SelectionTournament
	}

	fitnessHistory := make([]float64, 0, cfg.Generations)

	for gen := 0; gen < cfg.Generations; gen++ {
		for _, skeleton := range population {
			e.solver.ScoreAndUpdate(skeleton)
		}
		sortByScore(population)
		if len(population) > 0 {
			fitnessHistory = append(fitnessHistory, population[0].CoherenceScore())
		}

		offspring := make([]*model.StorySkeleton, 0, len(population))
		nOffspring := len(population) / 2

		for i := 0; i < nOffspring; i++ {
			parentA, parentB, err := e.SelectParents(population, method, rng, cfg.TournamentSize)
			if err != nil {
				return model.EvolutionResult{}, err
			}

			var childA, childB *model.StorySkeleton
			if rng.Float64() < cfg.CrossoverRate {
				childA, childB = e.Crossover(parentA, parentB, rng)
			} else {
				childA = model.CloneSkeleton(parentA)
				childB = model.CloneSkeleton(parentB)
			}

			e.Mutate(childA, rng, cfg.MutationRate)
			e.Mutate(childB, rng, cfg.MutationRate)

			if rng.Float64() < cfg.WildCardRate && len(e.wildCards) > 0 {
				e.InjectWildCard(childA, rng)
			}

			offspring = append(offspring, childA, childB)
		}

		// Population is sorted best-first: keep the strongest survivors and
		// append the offspring without re-sorting.
		population = append(population[:len(population)-len(offspring)], offspring...)

		for _, skeleton := range population {
			skeleton.Stats.Generation = gen + 1
		}
	}

	for _, skeleton := range population {
		e.solver.ScoreAndUpdate(skeleton)
	}
	sortByScore(population)

	result := model.EvolutionResult{
		Population:     population,
		GenerationsRun: cfg.Generations,
		FitnessHistory: fitnessHistory,
	}
	if len(population) > 0 {
		result.BestSkeleton = population[0]
	}
	return result, nil
}

// sortByScore orders the population by coherence score, best first. The sort
// is stable so equal scores keep their prior order.
func sortByScore(population []*model.StorySkeleton) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].CoherenceScore() > population[j].CoherenceScore()
	})
}
