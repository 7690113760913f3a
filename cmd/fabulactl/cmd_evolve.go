package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fabula/internal/export"
	"fabula/internal/model"
)

var evolveFlags struct {
	input          string
	output         string
	generations    int
	seed           int64
	mutationRate   float64
	crossoverRate  float64
	wildCardRate   float64
	tournamentSize int
	selection      string
}

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Evolve an existing skeleton population",
	Long: `Evolve skeletons loaded from a JSON file and write the refined
population back out, best first.`,
	RunE: runEvolve,
}

func init() {
	f := evolveCmd.Flags()
	f.StringVarP(&evolveFlags.input, "input", "i", "", "Input skeleton JSON (required)")
	f.StringVarP(&evolveFlags.output, "output", "o", "", "Output file (required)")
	f.IntVarP(&evolveFlags.generations, "generations", "g", 5, "Number of generations")
	f.Int64Var(&evolveFlags.seed, "seed", 0, "Master seed")
	f.Float64Var(&evolveFlags.mutationRate, "mutation-rate", 0, "Per-element mutation probability")
	f.Float64Var(&evolveFlags.crossoverRate, "crossover-rate", 0, "Parent crossover probability")
	f.Float64Var(&evolveFlags.wildCardRate, "wild-card-rate", 0, "Wild-card injection probability")
	f.IntVar(&evolveFlags.tournamentSize, "tournament-size", 0, "Tournament size for selection")
	f.StringVar(&evolveFlags.selection, "selection", "", "Selection method: tournament, roulette or rank")

	_ = evolveCmd.MarkFlagRequired("input")
	_ = evolveCmd.MarkFlagRequired("output")
}

func runEvolve(cmd *cobra.Command, _ []string) error {
	population, err := export.LoadSkeletons(evolveFlags.input)
	if err != nil {
		return err
	}

	client, err := newLocalClient()
	if err != nil {
		return err
	}
	defer client.Close()

	cfg := model.DefaultEvolutionConfig()
	cfg.Enabled = true
	cfg.Generations = evolveFlags.generations
	cfg.PopulationSize = len(population)
	if evolveFlags.mutationRate > 0 {
		cfg.MutationRate = evolveFlags.mutationRate
	}
	if evolveFlags.crossoverRate > 0 {
		cfg.CrossoverRate = evolveFlags.crossoverRate
	}
	if evolveFlags.wildCardRate > 0 {
		cfg.WildCardRate = evolveFlags.wildCardRate
	}
	if evolveFlags.tournamentSize > 0 {
		cfg.TournamentSize = evolveFlags.tournamentSize
	}
	if evolveFlags.selection != "" {
		cfg.SelectionMethod = evolveFlags.selection
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %d skeletons from %s\n", len(population), evolveFlags.input)
	fmt.Fprintf(out, "Evolving for %d generations...\n", cfg.Generations)

	result, err := client.Evolve(population, cfg, evolveFlags.seed)
	if err != nil {
		return err
	}

	if len(result.FitnessHistory) > 0 {
		fmt.Fprintf(out, "Evolution complete. Best fitness: %.4f\n",
			result.FitnessHistory[len(result.FitnessHistory)-1])
	}
	if err := export.WriteFile(result.Population, evolveFlags.output); err != nil {
		return err
	}
	fmt.Fprintf(out, "Evolved skeletons saved to %s\n", evolveFlags.output)
	return nil
}
