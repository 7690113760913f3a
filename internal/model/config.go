package model

import "fmt"

// Selection method names accepted by the evolution engine.
const (
	SelectionTournament = "tournament"
	SelectionRoulette   = "roulette"
	SelectionRank       = "rank"
)

// EvolutionConfig drives the generational loop of the evolution engine.
type EvolutionConfig struct {
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	Generations     int     `json:"generations" yaml:"generations"`
	PopulationSize  int     `json:"population_size" yaml:"population_size"`
	MutationRate    float64 `json:"mutation_rate" yaml:"mutation_rate"`
	CrossoverRate   float64 `json:"crossover_rate" yaml:"crossover_rate"`
	TournamentSize  int     `json:"tournament_size" yaml:"tournament_size"`
	WildCardRate    float64 `json:"wild_card_rate" yaml:"wild_card_rate"`
	SelectionMethod string  `json:"selection_method" yaml:"selection_method"`
}

// DefaultEvolutionConfig mirrors the deep-run defaults.
func DefaultEvolutionConfig() EvolutionConfig {
	return EvolutionConfig{
		Generations:     5,
		PopulationSize:  50,
		MutationRate:    0.1,
		CrossoverRate:   0.7,
		TournamentSize:  3,
		WildCardRate:    0.05,
		SelectionMethod: SelectionTournament,
	}
}

// Validate rejects configuration a run cannot sensibly start with.
func (c EvolutionConfig) Validate() error {
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0, got %d", c.Generations)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0, 1], got %g", c.MutationRate)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("crossover rate must be in [0, 1], got %g", c.CrossoverRate)
	}
	if c.WildCardRate < 0 || c.WildCardRate > 1 {
		return fmt.Errorf("wild card rate must be in [0, 1], got %g", c.WildCardRate)
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("tournament size must be >= 1, got %d", c.TournamentSize)
	}
	switch c.SelectionMethod {
	case "", SelectionTournament, SelectionRoulette, SelectionRank:
	default:
		return fmt.Errorf("unknown selection method: %q", c.SelectionMethod)
	}
	return nil
}

// GenerationConfig drives the batch skeleton pipeline.
type GenerationConfig struct {
	Seed        int64           `json:"seed" yaml:"seed"`
	Skeletons   int             `json:"skeletons" yaml:"skeletons"`
	SpreadTypes []string        `json:"spread_types" yaml:"spread_types"`
	MinBeats    int             `json:"min_beats" yaml:"min_beats"`
	MaxBeats    int             `json:"max_beats" yaml:"max_beats"`
	Workers     int             `json:"workers" yaml:"workers"`
	Evolution   EvolutionConfig `json:"evolution" yaml:"evolution"`
}

// Validate rejects configuration the batch pipeline cannot start with.
func (c GenerationConfig) Validate() error {
	if c.Skeletons < 1 {
		return fmt.Errorf("skeleton count must be >= 1, got %d", c.Skeletons)
	}
	if c.MinBeats < 1 {
		return fmt.Errorf("min beats must be >= 1, got %d", c.MinBeats)
	}
	if c.MaxBeats < c.MinBeats {
		return fmt.Errorf("max beats (%d) must be >= min beats (%d)", c.MaxBeats, c.MinBeats)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return c.Evolution.Validate()
}

// DefaultGenerationConfig returns the deep preset of the batch pipeline.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Skeletons: 50,
		MinBeats:  5,
		MaxBeats:  12,
		Workers:   1,
		Evolution: DefaultEvolutionConfig(),
	}
}
