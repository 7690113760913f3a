package evo

import (
	"fmt"
	"math/rand"

	"fabula/internal/model"
)

// InjectWildCard applies one randomly chosen wild card to the skeleton in
// place. With no wild cards loaded, or for an effect type the engine does
// not know, the skeleton is returned unchanged.
func (e *Engine) InjectWildCard(skeleton *model.StorySkeleton, rng *rand.Rand) *model.StorySkeleton {
	if len(e.wildCards) == 0 {
		return skeleton
	}
	card := e.wildCards[rng.Intn(len(e.wildCards))]
	params := card.Parameters

	switch card.EffectType {
	case model.WildCardAddAtom:
		if params.Atom != nil {
			name := params.Atom.Name
			if name == "" {
				name = "wild unknown"
			}
			category := params.Atom.Category
			if category == "" {
				category = model.CategoryObject
			}
			skeleton.Atoms = append(skeleton.Atoms, model.StoryAtom{
				Name:     name,
				Category: category,
				Source:   model.SourceWildCard,
				Tags:     append([]string(nil), params.Atom.Tags...),
				Rarity:   0.9,
				Metadata: map[string]string{"wild_card": card.Name},
			})
		}

	case model.WildCardModifyAtom:
		if params.TargetCategory != "" {
			targets := make([]int, 0, len(skeleton.Atoms))
			for i, atom := range skeleton.Atoms {
				if atom.Category == params.TargetCategory {
					targets = append(targets, i)
				}
			}
			if len(targets) > 0 {
				chosen := &skeleton.Atoms[targets[rng.Intn(len(targets))]]
				for _, tag := range params.AddTags {
					chosen.AddTag(tag)
				}
			}
		}

	case model.WildCardChangeTone:
		if params.Tone != "" {
			skeleton.Tone = params.Tone
		}

	case model.WildCardAddBeat:
		beatType := params.BeatType
		if beatType == "" {
			beatType = "revelation"
		}
		beat := beatType
		if params.Source != "" {
			beat = fmt.Sprintf("%s (%s)", beatType, params.Source)
		}
		if len(skeleton.Beats) > 0 {
			idx := rng.Intn(len(skeleton.Beats) + 1)
			skeleton.Beats = append(skeleton.Beats, "")
			copy(skeleton.Beats[idx+1:], skeleton.Beats[idx:])
			skeleton.Beats[idx] = beat
		} else {
			skeleton.Beats = append(skeleton.Beats, beat)
		}

	case model.WildCardSwapAtom:
		count := params.Count
		if count <= 0 {
			count = 2
		}
		if params.SwapCategory != "" {
			targets := make([]int, 0, len(skeleton.Atoms))
			for i, atom := range skeleton.Atoms {
				if atom.Category == params.SwapCategory {
					targets = append(targets, i)
				}
			}
			if len(targets) >= count {
				picked := sampleIndices(rng, len(targets), count)
				chosen := make([]int, count)
				for i, p := range picked {
					chosen[i] = targets[p]
				}
				// Rotate the chosen atoms one slot forward.
				rotated := make([]model.StoryAtom, count)
				for i := range chosen {
					rotated[i] = skeleton.Atoms[chosen[(i+1)%count]]
				}
				for i, idx := range chosen {
					skeleton.Atoms[idx] = rotated[i]
				}
			}
		}
	}

	return skeleton
}
