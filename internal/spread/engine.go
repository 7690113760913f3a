// Package spread maps story atoms onto narrative spread positions, weighted
// by category preference and inter-atom affinity, and builds complete story
// skeletons from the result.
package spread

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"fabula/internal/catalogue"
	"fabula/internal/model"
)

// Engine draws atoms into the positions of named spread layouts.
type Engine struct {
	catalogue *catalogue.Catalogue
	spreads   map[string]model.SpreadLayout
}

// New builds a spread engine over a catalogue and a set of layouts.
func New(cat *catalogue.Catalogue, spreads map[string]model.SpreadLayout) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("catalogue is required")
	}
	if len(spreads) == 0 {
		return nil, errors.New("at least one spread layout is required")
	}
	copied := make(map[string]model.SpreadLayout, len(spreads))
	for name, layout := range spreads {
		copied[name] = layout
	}
	return &Engine{catalogue: cat, spreads: copied}, nil
}

// SpreadTypes lists the known spread type names, sorted.
func (e *Engine) SpreadTypes() []string {
	names := make([]string, 0, len(e.spreads))
	for name := range e.spreads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Layout returns the named layout.
func (e *Engine) Layout(spreadType string) (model.SpreadLayout, error) {
	layout, ok := e.spreads[spreadType]
	if !ok {
		return model.SpreadLayout{}, fmt.Errorf("unknown spread type: %q", spreadType)
	}
	return layout, nil
}

// Draw fills the positions of a spread with atoms. Per position, in layout
// order:
//
//  1. restrict the unused atoms to the position's preferred categories
//  2. among the matches, weight by summed affinity to already-placed atoms
//  3. with no category match, fall back to any unused atom
//  4. with no atoms left, sample a replacement from the catalogue
//
// Each atom name is placed at most once. The returned atoms are owned
// copies.
func (e *Engine) Draw(spreadType string, atoms []model.StoryAtom, rng *rand.Rand) (map[string]model.StoryAtom, error) {
	layout, err := e.Layout(spreadType)
	if err != nil {
		return nil, err
	}

	placed := make(map[string]model.StoryAtom, len(layout.Positions))
	placedOrder := make([]model.StoryAtom, 0, len(layout.Positions))
	usedNames := make(map[string]struct{}, len(atoms))

	for _, position := range layout.Positions {
		available := make([]model.StoryAtom, 0, len(atoms))
		for _, atom := range atoms {
			if _, used := usedNames[atom.Name]; !used {
				available = append(available, atom)
			}
		}

		var matched []model.StoryAtom
		if len(position.PreferredCategories) > 0 {
			for _, atom := range available {
				for _, category := range position.PreferredCategories {
					if atom.Category == category {
						matched = append(matched, atom)
						break
					}
				}
			}
		}

		chosen, ok := e.pickByAffinity(matched, placedOrder, rng)
		if !ok {
			chosen, ok = e.pickByAffinity(available, placedOrder, rng)
		}
		if !ok {
			categories := position.PreferredCategories
			if len(categories) == 0 {
				categories = model.AllCategories()
			}
			for _, category := range categories {
				if sampled := e.catalogue.SampleWeighted(category, rng, 1); len(sampled) > 0 {
					chosen, ok = sampled[0], true
					break
				}
			}
		}
		if !ok {
			continue
		}

		owned := model.CloneAtom(chosen)
		placed[position.Name] = owned
		placedOrder = append(placedOrder, owned)
		usedNames[owned.Name] = struct{}{}
	}

	return placed, nil
}

// pickByAffinity selects one candidate weighted by 1 plus its summed
// affinity to the already-placed atoms, clamped to a minimum weight of 0.01.
// With nothing placed yet the pick is uniform.
func (e *Engine) pickByAffinity(candidates, placed []model.StoryAtom, rng *rand.Rand) (model.StoryAtom, bool) {
	if len(candidates) == 0 {
		return model.StoryAtom{}, false
	}
	if len(placed) == 0 {
		return candidates[rng.Intn(len(candidates))], true
	}

	weights := make([]float64, len(candidates))
	for i, candidate := range candidates {
		sum := 0.0
		for _, other := range placed {
			sum += e.catalogue.GetAffinity(candidate.Name, other.Name)
		}
		w := 1.0 + sum
		if w < 0.01 {
			w = 0.01
		}
		weights[i] = w
	}
	return candidates[weightedIndex(rng, weights)], true
}

// InterpretPosition renders a brief narrative fragment for an atom sitting
// in a position of the given spread.
func (e *Engine) InterpretPosition(positionName string, atom model.StoryAtom, spreadType string) (string, error) {
	layout, err := e.Layout(spreadType)
	if err != nil {
		return "", err
	}

	description := ""
	for _, position := range layout.Positions {
		if position.Name == positionName {
			description = position.Description
			break
		}
	}

	phrase := atom.Name
	if phrase != "" {
		phrase = strings.ToUpper(phrase[:1]) + phrase[1:]
	}
	return fmt.Sprintf("%s — %s.", phrase, strings.ToLower(description)), nil
}

// GenerateSkeleton builds a complete story skeleton from a spread draw:
// atoms drawn into positions, one interpreted beat per filled position,
// theme tags as the deduplicated union of the placed atoms' tags, and a
// tone derived from the tags.
func (e *Engine) GenerateSkeleton(spreadType string, atoms []model.StoryAtom, rng *rand.Rand) (*model.StorySkeleton, error) {
	layout, err := e.Layout(spreadType)
	if err != nil {
		return nil, err
	}
	drawn, err := e.Draw(spreadType, atoms, rng)
	if err != nil {
		return nil, err
	}

	var (
		beats       []string
		placedAtoms []model.StoryAtom
	)
	positions := make(map[string]string, len(drawn))

	for _, position := range layout.Positions {
		atom, ok := drawn[position.Name]
		if !ok {
			continue
		}
		placedAtoms = append(placedAtoms, atom)
		positions[position.Name] = atom.Name
		beat, err := e.InterpretPosition(position.Name, atom, spreadType)
		if err != nil {
			return nil, err
		}
		beats = append(beats, beat)
	}

	seen := make(map[string]struct{})
	var themeTags []string
	for _, atom := range placedAtoms {
		for _, tag := range atom.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			themeTags = append(themeTags, tag)
		}
	}

	return &model.StorySkeleton{
		Atoms:           placedAtoms,
		Beats:           beats,
		SpreadPositions: positions,
		ThemeTags:       themeTags,
		Tone:            deriveTone(placedAtoms),
		Stats: model.GenerationStats{
			Engine:     "tarot_spread",
			SpreadType: spreadType,
			BeatCount:  len(beats),
		},
	}, nil
}

var (
	darkSignals  = []string{"dark", "horror", "dread", "gothic", "fear", "death", "shadow"}
	lightSignals = []string{"hope", "wonder", "joy", "light", "love", "comedy", "warmth"}
	tenseSignals = []string{"tension", "conflict", "danger", "war", "suspense", "mystery"}
)

// deriveTone picks a tone from tag signal counts. Ties resolve in favor of
// dark, then luminous, then tense; no signal at all reads as enigmatic.
func deriveTone(atoms []model.StoryAtom) string {
	tags := make(map[string]struct{})
	for _, atom := range atoms {
		for _, tag := range atom.Tags {
			tags[tag] = struct{}{}
		}
	}

	count := func(signals []string) int {
		n := 0
		for _, signal := range signals {
			if _, ok := tags[signal]; ok {
				n++
			}
		}
		return n
	}

	bestTone, bestCount := "dark", count(darkSignals)
	if c := count(lightSignals); c > bestCount {
		bestTone, bestCount = "luminous", c
	}
	if c := count(tenseSignals); c > bestCount {
		bestTone, bestCount = "tense", c
	}
	if bestCount == 0 {
		return "enigmatic"
	}
	return bestTone
}

// weightedIndex picks an index proportionally to the given positive weights.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	target := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}
