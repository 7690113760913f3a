package model

// GenerationStats records how a skeleton was produced and how it scored.
type GenerationStats struct {
	Engine         string   `json:"engine" yaml:"engine"`
	SpreadType     string   `json:"spread_type" yaml:"spread_type"`
	BeatCount      int      `json:"beat_count" yaml:"beat_count"`
	Violations     []string `json:"violations,omitempty" yaml:"violations,omitempty"`
	CoherenceScore float64  `json:"coherence_score" yaml:"coherence_score"`
	Generation     int      `json:"generation" yaml:"generation"`
}

// StorySkeleton is a complete narrative skeleton: a set of atoms, an ordered
// beat sequence, spread positions, theme tags and a tone. Spread positions
// map position names to atom names, not atom references; referential
// integrity is maintained by the operators that rewrite atoms.
//
// Atom names are not guaranteed unique within a skeleton: crossover and
// wild-card injection can introduce duplicates and every operator tolerates
// them.
type StorySkeleton struct {
	Atoms           []StoryAtom       `json:"atoms" yaml:"atoms"`
	Beats           []string          `json:"beats" yaml:"beats"`
	SpreadPositions map[string]string `json:"spread_positions" yaml:"spread_positions"`
	ThemeTags       []string          `json:"theme_tags" yaml:"theme_tags"`
	Tone            string            `json:"tone" yaml:"tone"`
	Stats           GenerationStats   `json:"stats" yaml:"stats"`
	Seed            int64             `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// CoherenceScore is a convenience accessor for the scored fitness.
func (s *StorySkeleton) CoherenceScore() float64 {
	return s.Stats.CoherenceScore
}

// TagSet collects every tag present across the skeleton's atoms.
func (s *StorySkeleton) TagSet() map[string]struct{} {
	tags := make(map[string]struct{})
	for _, atom := range s.Atoms {
		for _, tag := range atom.Tags {
			tags[tag] = struct{}{}
		}
	}
	return tags
}

// AtomNameSet collects the distinct atom names in the skeleton.
func (s *StorySkeleton) AtomNameSet() map[string]struct{} {
	names := make(map[string]struct{}, len(s.Atoms))
	for _, atom := range s.Atoms {
		names[atom.Name] = struct{}{}
	}
	return names
}

// HasBeat reports whether the beat sequence contains the given beat.
func (s *StorySkeleton) HasBeat(beat string) bool {
	for _, b := range s.Beats {
		if b == beat {
			return true
		}
	}
	return false
}

// EvolutionResult is the outcome of an evolutionary run. FitnessHistory has
// one best-score entry per generation, recorded before that generation's
// offspring were created.
type EvolutionResult struct {
	BestSkeleton   *StorySkeleton   `json:"best_skeleton"`
	Population     []*StorySkeleton `json:"population"`
	GenerationsRun int              `json:"generations_run"`
	FitnessHistory []float64        `json:"fitness_history"`
}
