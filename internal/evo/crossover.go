package evo

import (
	"math/rand"

	"fabula/internal/model"
)

// Crossover creates two children by combining two parents. Both parents are
// deep-cloned first and never observably mutated.
//
//   - atoms: a random subset is swapped between the children; swap positions
//     are sampled independently per parent and paired by list order
//   - beats: independent single-point splices
//   - theme tags: union of both parents in first-seen order, assigned to
//     both children
//   - tone: swapped between the children with probability 0.5
//   - spread positions: rebuilt, dropping entries whose atom name no longer
//     exists among that child's atoms
func (e *Engine) Crossover(parentA, parentB *model.StorySkeleton, rng *rand.Rand) (*model.StorySkeleton, *model.StorySkeleton) {
	childA := model.CloneSkeleton(parentA)
	childB := model.CloneSkeleton(parentB)

	if len(childA.Atoms) > 0 && len(childB.Atoms) > 0 {
		maxSwap := len(childA.Atoms)
		if len(childB.Atoms) < maxSwap {
			maxSwap = len(childB.Atoms)
		}
		nSwap := 1 + rng.Intn(maxSwap)
		indicesA := sampleIndices(rng, len(childA.Atoms), nSwap)
		indicesB := sampleIndices(rng, len(childB.Atoms), nSwap)

		for i := range indicesA {
			ia, ib := indicesA[i], indicesB[i]
			childA.Atoms[ia], childB.Atoms[ib] = childB.Atoms[ib], childA.Atoms[ia]
		}
	}

	if len(childA.Beats) > 0 && len(childB.Beats) > 0 {
		cutA := splicePoint(rng, len(childA.Beats))
		cutB := splicePoint(rng, len(childB.Beats))
		beatsA := childA.Beats
		beatsB := childB.Beats
		childA.Beats = append(append([]string(nil), beatsA[:cutA]...), beatsB[cutB:]...)
		childB.Beats = append(append([]string(nil), beatsB[:cutB]...), beatsA[cutA:]...)
	}

	merged := unionTags(childA.ThemeTags, childB.ThemeTags)
	childA.ThemeTags = append([]string(nil), merged...)
	childB.ThemeTags = append([]string(nil), merged...)

	if rng.Float64() < 0.5 {
		childA.Tone, childB.Tone = childB.Tone, childA.Tone
	}

	childA.SpreadPositions = rebuildSpreadPositions(childA)
	childB.SpreadPositions = rebuildSpreadPositions(childB)

	return childA, childB
}

// splicePoint picks a single-point cut in [1, n-1]; a one-element sequence
// cuts at 1.
func splicePoint(rng *rand.Rand, n int) int {
	if n <= 2 {
		return 1
	}
	return 1 + rng.Intn(n-1)
}

// unionTags merges two tag lists, deduplicated, preserving first-seen order.
func unionTags(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, tag := range a {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	for _, tag := range b {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	return merged
}

// rebuildSpreadPositions keeps only entries whose referenced atom name still
// exists among the skeleton's atoms. Dropped entries are not reassigned.
func rebuildSpreadPositions(skeleton *model.StorySkeleton) map[string]string {
	names := skeleton.AtomNameSet()
	rebuilt := make(map[string]string, len(skeleton.SpreadPositions))
	for position, atomName := range skeleton.SpreadPositions {
		if _, ok := names[atomName]; ok {
			rebuilt[position] = atomName
		}
	}
	return rebuilt
}
