// Package markov generates narrative beat sequences from a first-order
// transition probability table, optionally biased by story-atom signals.
package markov

import (
	"math/rand"
	"sort"
)

// BeatTypes lists every known beat type in narrative order.
var BeatTypes = []string{
	"OPENING",
	"WORLD_BUILDING",
	"CHARACTER_INTRO",
	"INCITING_INCIDENT",
	"RISING_ACTION",
	"COMPLICATION",
	"MIDPOINT",
	"ESCALATION",
	"CRISIS",
	"CLIMAX",
	"FALLING_ACTION",
	"RESOLUTION",
	"DENOUEMENT",
}

// validEndings are the beat types a sequence may terminate on.
var validEndings = map[string]struct{}{
	"RESOLUTION": {},
	"DENOUEMENT": {},
}

// IsValidEnding reports whether a sequence may terminate on the given beat.
func IsValidEnding(beat string) bool {
	_, ok := validEndings[beat]
	return ok
}

// Chain walks a beat-to-beat transition probability table.
type Chain struct {
	transitions map[string]map[string]float64
}

// NewChain builds a chain over a transition table. Beats missing from the
// table fall back to a uniform distribution over all beat types.
func NewChain(transitions map[string]map[string]float64) *Chain {
	if transitions == nil {
		transitions = map[string]map[string]float64{}
	}
	return &Chain{transitions: transitions}
}

// GenerateSequence produces a beat sequence starting at OPENING. Walking
// stops once the sequence has at least minBeats beats and sits on a valid
// ending; at maxBeats a valid ending is forced if needed, so the result may
// hold maxBeats+1 beats. atomModifiers are additive adjustments to specific
// beat probabilities and may be nil. A beat never immediately repeats.
func (c *Chain) GenerateSequence(rng *rand.Rand, minBeats, maxBeats int, atomModifiers map[string]float64) []string {
	sequence := []string{"OPENING"}
	current := "OPENING"

	for {
		if len(sequence) >= minBeats && IsValidEnding(current) {
			break
		}
		if len(sequence) >= maxBeats {
			if !IsValidEnding(current) {
				endings := []string{"RESOLUTION", "DENOUEMENT"}
				sequence = append(sequence, endings[rng.Intn(len(endings))])
			}
			break
		}

		probs := make(map[string]float64)
		for beat, p := range c.transitions[current] {
			probs[beat] = p
		}
		if len(probs) == 0 {
			for _, beat := range BeatTypes {
				probs[beat] = 1.0
			}
		}

		for beat, mod := range atomModifiers {
			probs[beat] += mod
		}

		probs[current] = 0

		current = weightedChoice(probs, rng)
		sequence = append(sequence, current)
	}

	return sequence
}

// weightedChoice samples a key proportionally to its weight. Negative
// weights are clamped to zero; an all-zero table falls back to uniform.
// Keys are visited in sorted order so results are reproducible.
func weightedChoice(options map[string]float64, rng *rand.Rand) string {
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	total := 0.0
	for _, key := range keys {
		if w := options[key]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return keys[rng.Intn(len(keys))]
	}

	target := rng.Float64() * total
	cum := 0.0
	last := keys[0]
	for _, key := range keys {
		w := options[key]
		if w <= 0 {
			continue
		}
		cum += w
		last = key
		if target < cum {
			return key
		}
	}
	return last
}
