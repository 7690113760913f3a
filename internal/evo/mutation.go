package evo

import (
	"math/rand"
	"sort"

	"fabula/internal/model"
)

// Tones the mutation operator can reassign. Matches the vocabulary the
// generation pipeline draws from.
var tones = []string{
	"dark", "luminous", "tense", "enigmatic", "dreamlike",
	"eerie", "melancholic", "tender", "hushed", "transcendent",
	"paranoid", "disorienting", "inverted", "convergent",
}

// Tones returns the fixed tone vocabulary.
func Tones() []string {
	return append([]string(nil), tones...)
}

// Mutate mutates a skeleton in place with the given per-element rate:
//
//   - each atom: replaced by a uniformly random catalogue atom of the same
//     category; tags/rarity/metadata come from the replacement and the
//     source is forced to evolved
//   - each spread position: rerolled to a random atom name from the
//     skeleton's current atom list
//   - beats: one roll; on success a random sub-range is shuffled in place
//     (only when more than two beats exist)
//   - tone: one roll; on success reassigned from the tone vocabulary
func (e *Engine) Mutate(skeleton *model.StorySkeleton, rng *rand.Rand, rate float64) *model.StorySkeleton {
	for i := range skeleton.Atoms {
		if rng.Float64() >= rate {
			continue
		}
		replacements := e.catalogue.GetByCategory(skeleton.Atoms[i].Category)
		if len(replacements) == 0 {
			continue
		}
		replacement := replacements[rng.Intn(len(replacements))]
		evolved := model.CloneAtom(replacement)
		evolved.Source = model.SourceEvolved
		skeleton.Atoms[i] = evolved
	}

	if len(skeleton.SpreadPositions) > 0 && len(skeleton.Atoms) > 0 {
		positions := make([]string, 0, len(skeleton.SpreadPositions))
		for position := range skeleton.SpreadPositions {
			positions = append(positions, position)
		}
		sort.Strings(positions)
		for _, position := range positions {
			if rng.Float64() < rate {
				skeleton.SpreadPositions[position] = skeleton.Atoms[rng.Intn(len(skeleton.Atoms))].Name
			}
		}
	}

	if len(skeleton.Beats) > 2 && rng.Float64() < rate {
		start := rng.Intn(len(skeleton.Beats) - 1)
		end := start + 1 + rng.Intn(len(skeleton.Beats)-start)
		segment := skeleton.Beats[start:end]
		rng.Shuffle(len(segment), func(i, j int) {
			segment[i], segment[j] = segment[j], segment[i]
		})
	}

	if rng.Float64() < rate {
		skeleton.Tone = tones[rng.Intn(len(tones))]
	}

	return skeleton
}
