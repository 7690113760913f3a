// Package rules implements the world-rules engine: static invariants checked
// against skeletons and probabilistic tendencies that may mutate them.
package rules

import (
	"fmt"
	"math/rand"

	"fabula/internal/model"
)

// Engine holds an immutable ordered list of invariants and tendencies loaded
// once at construction.
type Engine struct {
	invariants []model.Invariant
	tendencies []model.Tendency
}

// NewEngine copies the rule lists so later mutation by the caller cannot
// reach the engine.
func NewEngine(invariants []model.Invariant, tendencies []model.Tendency) *Engine {
	return &Engine{
		invariants: append([]model.Invariant(nil), invariants...),
		tendencies: append([]model.Tendency(nil), tendencies...),
	}
}

// Invariants returns a copy of the loaded invariants.
func (e *Engine) Invariants() []model.Invariant {
	return append([]model.Invariant(nil), e.invariants...)
}

// Tendencies returns a copy of the loaded tendencies.
func (e *Engine) Tendencies() []model.Tendency {
	return append([]model.Tendency(nil), e.tendencies...)
}

// CheckInvariant checks one invariant against a skeleton. It returns a
// violation message and true when the invariant is violated. Unknown check
// types never fail: newer rule data degrades to a vacuous pass.
func (e *Engine) CheckInvariant(skeleton *model.StorySkeleton, invariant model.Invariant) (string, bool) {
	allTags := skeleton.TagSet()
	params := invariant.Parameters

	switch invariant.CheckType {
	case model.CheckRequiresAtom:
		required := params.RequiresTag
		if required != "" {
			if _, ok := allTags[required]; !ok {
				return fmt.Sprintf("[%s] Required tag %q missing", invariant.Name, required), true
			}
		}

	case model.CheckForbidsCombo:
		_, hasA := allTags[params.TagA]
		_, hasB := allTags[params.TagB]
		if hasA && hasB {
			return fmt.Sprintf("[%s] Forbidden combination: %q and %q coexist", invariant.Name, params.TagA, params.TagB), true
		}

	case model.CheckRequiresBeat:
		if params.Beat != "" && !skeleton.HasBeat(params.Beat) {
			return fmt.Sprintf("[%s] Required beat %q missing", invariant.Name, params.Beat), true
		}

	case model.CheckConditional:
		_, hasIf := allTags[params.IfTag]
		_, hasRequired := allTags[params.RequiresTag]
		if hasIf && !hasRequired {
			return fmt.Sprintf("[%s] Tag %q present but required tag %q missing", invariant.Name, params.IfTag, params.RequiresTag), true
		}
	}

	return "", false
}

// ApplyTendencies rolls each tendency in list order and applies the effects
// of those that fire. It returns, in rule order, the names of tendencies
// that produced an observable mutation: a roll that succeeds but finds
// nothing to act on (add_tag with no atoms, or a tag already present) is not
// recorded.
func (e *Engine) ApplyTendencies(skeleton *model.StorySkeleton, rng *rand.Rand) []string {
	applied := []string{}

	for _, tendency := range e.tendencies {
		if rng.Float64() >= tendency.Probability {
			continue
		}

		params := tendency.Parameters
		mutated := false

		switch tendency.Effect {
		case model.EffectAddTag:
			if params.Tag != "" && len(skeleton.Atoms) > 0 {
				atom := &skeleton.Atoms[rng.Intn(len(skeleton.Atoms))]
				mutated = atom.AddTag(params.Tag)
			}

		case model.EffectAddTension:
			if params.Tension != "" {
				skeleton.Atoms = append(skeleton.Atoms, model.StoryAtom{
					Name:     params.Tension,
					Category: model.CategoryTension,
					Source:   model.SourceWildCard,
					Tags:     []string{"tension", params.Tension},
				})
				mutated = true
			}

		case model.EffectModifyTone:
			if params.Tone != "" {
				skeleton.Tone = params.Tone
				mutated = true
			}

		case model.EffectAddBeat:
			if params.Beat != "" {
				skeleton.Beats = append(skeleton.Beats, params.Beat)
				mutated = true
			}
		}

		if mutated {
			applied = append(applied, tendency.Name)
		}
	}

	return applied
}

// Validate checks every invariant and, when rng is non-nil, applies the
// tendencies. A nil rng skips the tendency phase entirely, which keeps
// repeated scoring of the same skeleton stable.
func (e *Engine) Validate(skeleton *model.StorySkeleton, rng *rand.Rand) model.ValidationResult {
	result := model.NewValidationResult()

	for _, invariant := range e.invariants {
		if message, violated := e.CheckInvariant(skeleton, invariant); violated {
			result.AddViolation(message, invariant.Severity)
		}
	}

	if rng != nil {
		result.TendenciesApplied = e.ApplyTendencies(skeleton, rng)
	}

	return result
}
