// Package solver computes the scalar coherence score of a story skeleton
// from atom affinities, world-rule violations, beat flow and thematic
// overlap.
package solver

import (
	"errors"
	"math/rand"

	"fabula/internal/catalogue"
	"fabula/internal/model"
	"fabula/internal/rules"
)

// Scoring term scales. The four terms sum to at most 1 before violation
// penalties; the final score is clamped to [0, 1].
const (
	affinityScale   = 0.3
	beatFlowScale   = 0.3
	thematicScale   = 0.4
	hardViolation   = -0.5
	softViolation   = -0.2
	affinityNeutral = affinityScale / 2
	beatFlowNeutral = beatFlowScale / 2
	thematicNeutral = thematicScale / 2
)

// Solver wraps a rules engine, an atom catalogue and a static beat
// transition probability table.
type Solver struct {
	rules       *rules.Engine
	catalogue   *catalogue.Catalogue
	transitions map[string]map[string]float64
}

// New builds a solver. All three collaborators are required; the transition
// table may be empty, in which case every beat pair scores 0.
func New(rulesEngine *rules.Engine, cat *catalogue.Catalogue, transitions map[string]map[string]float64) (*Solver, error) {
	if rulesEngine == nil {
		return nil, errors.New("rules engine is required")
	}
	if cat == nil {
		return nil, errors.New("catalogue is required")
	}
	if transitions == nil {
		transitions = map[string]map[string]float64{}
	}
	return &Solver{rules: rulesEngine, catalogue: cat, transitions: transitions}, nil
}

// Validate delegates to the rules engine.
func (s *Solver) Validate(skeleton *model.StorySkeleton, rng *rand.Rand) model.ValidationResult {
	return s.rules.Validate(skeleton, rng)
}

// ApplyTendencies delegates to the rules engine.
func (s *Solver) ApplyTendencies(skeleton *model.StorySkeleton, rng *rand.Rand) []string {
	return s.rules.ApplyTendencies(skeleton, rng)
}

// CoherenceScore computes the coherence score in [0, 1]:
//
//   - affinity (0 – 0.3): average pairwise catalogue affinity, mapped from
//     [-1, 1] onto the band; neutral 0.15 below two atoms
//   - violation penalty (<= 0): -0.5 per hard and -0.2 per soft violation,
//     validated without tendencies
//   - beat flow (0 – 0.3): average transition probability of consecutive
//     beat pairs; neutral 0.15 below two beats
//   - thematic consistency (0 – 0.4): proportion of atom pairs sharing a
//     tag; neutral 0.2 below two atoms
//
// Only the summed total is clamped.
func (s *Solver) CoherenceScore(skeleton *model.StorySkeleton) float64 {
	raw := s.affinityScore(skeleton) +
		s.violationPenalty(skeleton) +
		s.beatFlowScore(skeleton) +
		s.thematicConsistency(skeleton)

	if raw < 0 {
		return 0
	}
	if raw > 1 {
		return 1
	}
	return raw
}

// ScoreAndUpdate computes the coherence score, stores it on the skeleton's
// stats and returns the same skeleton for chaining.
func (s *Solver) ScoreAndUpdate(skeleton *model.StorySkeleton) *model.StorySkeleton {
	skeleton.Stats.CoherenceScore = s.CoherenceScore(skeleton)
	return skeleton
}

func (s *Solver) affinityScore(skeleton *model.StorySkeleton) float64 {
	atoms := skeleton.Atoms
	if len(atoms) < 2 {
		return affinityNeutral
	}

	total := 0.0
	count := 0
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			total += s.catalogue.GetAffinity(atoms[i].Name, atoms[j].Name)
			count++
		}
	}

	avg := total / float64(count) // in [-1, 1]
	return affinityNeutral + affinityNeutral*avg
}

func (s *Solver) violationPenalty(skeleton *model.StorySkeleton) float64 {
	result := s.rules.Validate(skeleton, nil)
	return hardViolation*float64(len(result.HardViolations)) +
		softViolation*float64(len(result.SoftViolations))
}

func (s *Solver) beatFlowScore(skeleton *model.StorySkeleton) float64 {
	beats := skeleton.Beats
	if len(beats) < 2 {
		return beatFlowNeutral
	}

	total := 0.0
	pairs := 0
	for i := 0; i < len(beats)-1; i++ {
		total += s.transitions[beats[i]][beats[i+1]]
		pairs++
	}

	return beatFlowScale * (total / float64(pairs))
}

func (s *Solver) thematicConsistency(skeleton *model.StorySkeleton) float64 {
	atoms := skeleton.Atoms
	if len(atoms) < 2 {
		return thematicNeutral
	}

	shared := 0
	total := 0
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			if shareTag(atoms[i], atoms[j]) {
				shared++
			}
			total++
		}
	}

	return thematicScale * float64(shared) / float64(total)
}

func shareTag(a, b model.StoryAtom) bool {
	for _, tag := range a.Tags {
		if b.HasTag(tag) {
			return true
		}
	}
	return false
}
