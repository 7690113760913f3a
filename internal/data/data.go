// Package data loads the static world definitions: atoms, affinities,
// invariants, tendencies, wild cards, beat transitions and spread layouts.
// A built-in set is embedded; every loader also accepts external files.
// Malformed category/severity/effect strings are rejected at load time.
package data

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fabula/internal/model"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

func readDefault(name string) []byte {
	payload, err := defaultsFS.ReadFile("defaults/" + name)
	if err != nil {
		// Embedded files are fixed at compile time.
		panic(fmt.Sprintf("embedded world data missing: %s", name))
	}
	return payload
}

type rawAtom struct {
	Name     string            `yaml:"name"`
	Category string            `yaml:"category"`
	Source   string            `yaml:"source"`
	Tags     []string          `yaml:"tags"`
	Rarity   float64           `yaml:"rarity"`
	Metadata map[string]string `yaml:"metadata"`
}

// DecodeAtoms parses atom definitions. Atoms that omit a source default to
// the catalogue source.
func DecodeAtoms(payload []byte) ([]model.StoryAtom, error) {
	var raw []rawAtom
	if err := yaml.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode atoms: %w", err)
	}
	atoms := make([]model.StoryAtom, 0, len(raw))
	for i, entry := range raw {
		if entry.Name == "" {
			return nil, fmt.Errorf("atom %d: name is required", i)
		}
		category, err := model.ParseAtomCategory(entry.Category)
		if err != nil {
			return nil, fmt.Errorf("atom %q: %w", entry.Name, err)
		}
		source := model.SourceCatalogue
		if entry.Source != "" {
			source, err = model.ParseAtomSource(entry.Source)
			if err != nil {
				return nil, fmt.Errorf("atom %q: %w", entry.Name, err)
			}
		}
		atoms = append(atoms, model.StoryAtom{
			Name:     entry.Name,
			Category: category,
			Source:   source,
			Tags:     entry.Tags,
			Rarity:   entry.Rarity,
			Metadata: entry.Metadata,
		})
	}
	return atoms, nil
}

// DecodeAffinities parses sparse affinity entries.
func DecodeAffinities(payload []byte) ([]model.AffinityEntry, error) {
	var entries []model.AffinityEntry
	if err := yaml.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("decode affinities: %w", err)
	}
	for i, entry := range entries {
		if entry.AtomA == "" || entry.AtomB == "" {
			return nil, fmt.Errorf("affinity %d: both atom names are required", i)
		}
		if entry.Strength < -1 || entry.Strength > 1 {
			return nil, fmt.Errorf("affinity %d: strength must be in [-1, 1], got %g", i, entry.Strength)
		}
	}
	return entries, nil
}

type rawInvariant struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Severity    string                `yaml:"severity"`
	CheckType   string                `yaml:"check_type"`
	Parameters  model.InvariantParams `yaml:"parameters"`
}

// DecodeInvariants parses invariant descriptors. Severity strings must map
// to a known variant; check types are left as-is so unknown types can
// degrade to a vacuous pass at validation time.
func DecodeInvariants(payload []byte) ([]model.Invariant, error) {
	var raw []rawInvariant
	if err := yaml.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode invariants: %w", err)
	}
	invariants := make([]model.Invariant, 0, len(raw))
	for i, entry := range raw {
		if entry.Name == "" {
			return nil, fmt.Errorf("invariant %d: name is required", i)
		}
		severity := model.SeverityHard
		if entry.Severity != "" {
			var err error
			severity, err = model.ParseSeverity(entry.Severity)
			if err != nil {
				return nil, fmt.Errorf("invariant %q: %w", entry.Name, err)
			}
		}
		invariants = append(invariants, model.Invariant{
			Name:        entry.Name,
			Description: entry.Description,
			Severity:    severity,
			CheckType:   entry.CheckType,
			Parameters:  entry.Parameters,
		})
	}
	return invariants, nil
}

// DecodeTendencies parses tendency descriptors.
func DecodeTendencies(payload []byte) ([]model.Tendency, error) {
	var tendencies []model.Tendency
	if err := yaml.Unmarshal(payload, &tendencies); err != nil {
		return nil, fmt.Errorf("decode tendencies: %w", err)
	}
	for i, tendency := range tendencies {
		if tendency.Name == "" {
			return nil, fmt.Errorf("tendency %d: name is required", i)
		}
		if tendency.Probability < 0 || tendency.Probability > 1 {
			return nil, fmt.Errorf("tendency %q: probability must be in [0, 1], got %g", tendency.Name, tendency.Probability)
		}
	}
	return tendencies, nil
}

type rawWildCard struct {
	Name       string `yaml:"name"`
	EffectType string `yaml:"effect_type"`
	Parameters struct {
		Atom *struct {
			Name     string   `yaml:"name"`
			Category string   `yaml:"category"`
			Tags     []string `yaml:"tags"`
		} `yaml:"atom"`
		TargetCategory string   `yaml:"target_category"`
		AddTags        []string `yaml:"add_tags"`
		Tone           string   `yaml:"tone"`
		BeatType       string   `yaml:"beat_type"`
		Source         string   `yaml:"source"`
		SwapCategory   string   `yaml:"swap_category"`
		Count          int      `yaml:"count"`
	} `yaml:"parameters"`
}

// DecodeWildCards parses wild-card descriptors. Category strings inside the
// parameters must parse; unknown effect types are kept verbatim since
// injection treats them as a no-op.
func DecodeWildCards(payload []byte) ([]model.WildCard, error) {
	var raw []rawWildCard
	if err := yaml.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode wild cards: %w", err)
	}
	cards := make([]model.WildCard, 0, len(raw))
	for i, entry := range raw {
		if entry.Name == "" {
			return nil, fmt.Errorf("wild card %d: name is required", i)
		}
		card := model.WildCard{
			Name:       entry.Name,
			EffectType: entry.EffectType,
			Parameters: model.WildCardParams{
				AddTags:  entry.Parameters.AddTags,
				Tone:     entry.Parameters.Tone,
				BeatType: entry.Parameters.BeatType,
				Source:   entry.Parameters.Source,
				Count:    entry.Parameters.Count,
			},
		}
		if entry.Parameters.Atom != nil {
			category, err := model.ParseAtomCategory(entry.Parameters.Atom.Category)
			if err != nil {
				return nil, fmt.Errorf("wild card %q: %w", entry.Name, err)
			}
			card.Parameters.Atom = &model.WildCardAtom{
				Name:     entry.Parameters.Atom.Name,
				Category: category,
				Tags:     entry.Parameters.Atom.Tags,
			}
		}
		if entry.Parameters.TargetCategory != "" {
			category, err := model.ParseAtomCategory(entry.Parameters.TargetCategory)
			if err != nil {
				return nil, fmt.Errorf("wild card %q: %w", entry.Name, err)
			}
			card.Parameters.TargetCategory = category
		}
		if entry.Parameters.SwapCategory != "" {
			category, err := model.ParseAtomCategory(entry.Parameters.SwapCategory)
			if err != nil {
				return nil, fmt.Errorf("wild card %q: %w", entry.Name, err)
			}
			card.Parameters.SwapCategory = category
		}
		if card.EffectType == model.WildCardSwapAtom && card.Parameters.Count == 0 {
			card.Parameters.Count = 2
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// DecodeBeatTransitions parses the beat->beat probability table.
func DecodeBeatTransitions(payload []byte) (map[string]map[string]float64, error) {
	transitions := make(map[string]map[string]float64)
	if err := yaml.Unmarshal(payload, &transitions); err != nil {
		return nil, fmt.Errorf("decode beat transitions: %w", err)
	}
	return transitions, nil
}

type rawSpread struct {
	Description string `yaml:"description"`
	Positions   []struct {
		Name                string   `yaml:"name"`
		Description         string   `yaml:"description"`
		PreferredCategories []string `yaml:"preferred_categories"`
	} `yaml:"positions"`
}

// DecodeSpreads parses spread layouts keyed by spread type.
func DecodeSpreads(payload []byte) (map[string]model.SpreadLayout, error) {
	var raw map[string]rawSpread
	if err := yaml.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode spreads: %w", err)
	}
	spreads := make(map[string]model.SpreadLayout, len(raw))
	for name, entry := range raw {
		layout := model.SpreadLayout{Description: entry.Description}
		for _, pos := range entry.Positions {
			if pos.Name == "" {
				return nil, fmt.Errorf("spread %q: position name is required", name)
			}
			position := model.SpreadPosition{Name: pos.Name, Description: pos.Description}
			for _, c := range pos.PreferredCategories {
				category, err := model.ParseAtomCategory(c)
				if err != nil {
					return nil, fmt.Errorf("spread %q position %q: %w", name, pos.Name, err)
				}
				position.PreferredCategories = append(position.PreferredCategories, category)
			}
			layout.Positions = append(layout.Positions, position)
		}
		spreads[name] = layout
	}
	return spreads, nil
}

// Default loaders for the embedded world data.

func DefaultAtoms() ([]model.StoryAtom, error) { return DecodeAtoms(readDefault("atoms.yaml")) }

func DefaultAffinities() ([]model.AffinityEntry, error) {
	return DecodeAffinities(readDefault("affinities.yaml"))
}

func DefaultInvariants() ([]model.Invariant, error) {
	return DecodeInvariants(readDefault("invariants.yaml"))
}

func DefaultTendencies() ([]model.Tendency, error) {
	return DecodeTendencies(readDefault("tendencies.yaml"))
}

func DefaultWildCards() ([]model.WildCard, error) {
	return DecodeWildCards(readDefault("wild_cards.yaml"))
}

func DefaultBeatTransitions() (map[string]map[string]float64, error) {
	return DecodeBeatTransitions(readDefault("beat_transitions.yaml"))
}

func DefaultSpreads() (map[string]model.SpreadLayout, error) {
	return DecodeSpreads(readDefault("spreads.yaml"))
}

// File loaders for external world data overrides.

func AtomsFromFile(path string) ([]model.StoryAtom, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeAtoms(payload)
}

func InvariantsFromFile(path string) ([]model.Invariant, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeInvariants(payload)
}

func TendenciesFromFile(path string) ([]model.Tendency, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeTendencies(payload)
}

func WildCardsFromFile(path string) ([]model.WildCard, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeWildCards(payload)
}
