package evo

import (
	"fmt"
	"math/rand"
	"sort"

	"fabula/internal/model"
)

// SelectParents picks two parents using the named method. Both picks run
// independently, so the same individual can be returned twice. An unknown
// method is a configuration error.
func (e *Engine) SelectParents(population []*model.StorySkeleton, method string, rng *rand.Rand, tournamentSize int) (*model.StorySkeleton, *model.StorySkeleton, error) {
	if len(population) == 0 {
		return nil, nil, fmt.Errorf("cannot select parents from an empty population")
	}

	switch method {
	case model.SelectionTournament:
		return tournamentSelect(population, tournamentSize, rng), tournamentSelect(population, tournamentSize, rng), nil
	case model.SelectionRoulette:
		return rouletteSelect(population, rng), rouletteSelect(population, rng), nil
	case model.SelectionRank:
		return rankSelect(population, rng), rankSelect(population, rng), nil
	default:
		return nil, nil, fmt.Errorf("unknown selection method: %q", method)
	}
}

// tournamentSelect picks the best of k individuals sampled uniformly without
// replacement.
func tournamentSelect(population []*model.StorySkeleton, k int, rng *rand.Rand) *model.StorySkeleton {
	if k > len(population) {
		k = len(population)
	}
	best := -1
	for _, idx := range sampleIndices(rng, len(population), k) {
		if best < 0 || population[idx].CoherenceScore() > population[best].CoherenceScore() {
			best = idx
		}
	}
	return population[best]
}

// rouletteSelect samples with replacement, weighted by score shifted to be
// strictly positive (minimum weight 0.01).
func rouletteSelect(population []*model.StorySkeleton, rng *rand.Rand) *model.StorySkeleton {
	minScore := population[0].CoherenceScore()
	for _, skeleton := range population[1:] {
		if skeleton.CoherenceScore() < minScore {
			minScore = skeleton.CoherenceScore()
		}
	}
	shift := 0.01
	if minScore < 0 {
		shift = -minScore + 0.01
	}

	weights := make([]float64, len(population))
	for i, skeleton := range population {
		weights[i] = skeleton.CoherenceScore() + shift
	}
	return population[weightedIndex(rng, weights)]
}

// rankSelect sorts by score descending and samples with weight n-i for
// position i, so the best individual carries weight n and the worst 1.
func rankSelect(population []*model.StorySkeleton, rng *rand.Rand) *model.StorySkeleton {
	ranked := append([]*model.StorySkeleton(nil), population...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CoherenceScore() > ranked[j].CoherenceScore()
	})

	n := len(ranked)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = float64(n - i)
	}
	return ranked[weightedIndex(rng, weights)]
}

// sampleIndices draws k distinct indices from [0, n) uniformly at random.
func sampleIndices(rng *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	return rng.Perm(n)[:k]
}

// weightedIndex picks an index proportionally to the given non-negative
// weights. A degenerate all-zero weight vector falls back to uniform.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	target := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}
