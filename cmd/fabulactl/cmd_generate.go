package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fabula/internal/export"
	"fabula/internal/stats"
	"fabula/internal/storage"
	"fabula/pkg/fabula"
)

var generateFlags struct {
	seed           int64
	count          int
	output         string
	spreads        []string
	minBeats       int
	maxBeats       int
	workers        int
	evolve         bool
	generations    int
	mutationRate   float64
	crossoverRate  float64
	wildCardRate   float64
	tournamentSize int
	selection      string
	store          string
	dbPath         string
	persist        bool
	artifactsDir   string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a batch of story skeletons",
	Long: `Generate a seeded batch of story skeletons, sorted by coherence score.

Without --seed each invocation draws a fresh time-derived seed; the seed
actually used is printed so the run can be reproduced. With --evolve the
batch is refined through the evolutionary loop before export.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.Int64Var(&generateFlags.seed, "seed", 0, "Master seed (default: time-derived)")
	f.IntVarP(&generateFlags.count, "count", "n", 0, "Number of skeletons (default from preset)")
	f.StringVarP(&generateFlags.output, "output", "o", "", "Output file (.json array or .csv summary)")
	f.StringSliceVar(&generateFlags.spreads, "spread", nil, "Spread types to draw from (repeatable; default: all)")
	f.IntVar(&generateFlags.minBeats, "min-beats", 0, "Minimum beats per skeleton")
	f.IntVar(&generateFlags.maxBeats, "max-beats", 0, "Maximum beats per skeleton")
	f.IntVar(&generateFlags.workers, "workers", 0, "Concurrent generation workers")
	f.BoolVar(&generateFlags.evolve, "evolve", false, "Refine the batch with the evolutionary loop")
	f.IntVarP(&generateFlags.generations, "generations", "g", 0, "Evolution generations")
	f.Float64Var(&generateFlags.mutationRate, "mutation-rate", 0, "Per-element mutation probability")
	f.Float64Var(&generateFlags.crossoverRate, "crossover-rate", 0, "Parent crossover probability")
	f.Float64Var(&generateFlags.wildCardRate, "wild-card-rate", 0, "Wild-card injection probability")
	f.IntVar(&generateFlags.tournamentSize, "tournament-size", 0, "Tournament size for selection")
	f.StringVar(&generateFlags.selection, "selection", "", "Selection method: tournament, roulette or rank")
	f.StringVar(&generateFlags.store, "store", storage.DefaultStoreKind(), "Store backend: memory or sqlite")
	f.StringVar(&generateFlags.dbPath, "db", "", "SQLite database path (default fabula.db)")
	f.BoolVar(&generateFlags.persist, "persist", false, "Persist the run and its skeletons to the store")
	f.StringVar(&generateFlags.artifactsDir, "artifacts", "", "Write per-run artifact files under this directory")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	client, err := fabula.New(fabula.Options{
		StoreKind: generateFlags.store,
		DBPath:    generateFlags.dbPath,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	if generateFlags.persist {
		if err := client.Init(ctx); err != nil {
			return fmt.Errorf("init store: %w", err)
		}
	}

	seed := generateFlags.seed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}

	summary, err := client.Run(ctx, fabula.RunRequest{
		Seed:           seed,
		Skeletons:      generateFlags.count,
		SpreadTypes:    generateFlags.spreads,
		MinBeats:       generateFlags.minBeats,
		MaxBeats:       generateFlags.maxBeats,
		Workers:        generateFlags.workers,
		Evolve:         generateFlags.evolve,
		Generations:    generateFlags.generations,
		MutationRate:   generateFlags.mutationRate,
		CrossoverRate:  generateFlags.crossoverRate,
		WildCardRate:   generateFlags.wildCardRate,
		TournamentSize: generateFlags.tournamentSize,
		Selection:      generateFlags.selection,
		Persist:        generateFlags.persist,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generated %d skeletons (seed %d)\n", len(summary.Skeletons), summary.Seed)
	if best := summary.Best(); best != nil {
		fmt.Fprintf(out, "Best coherence score: %.4f\n", best.CoherenceScore())
	}
	if summary.GenerationsRun > 0 && len(summary.FitnessHistory) > 0 {
		fmt.Fprintf(out, "Evolved for %d generations, final fitness %.4f\n",
			summary.GenerationsRun, summary.FitnessHistory[len(summary.FitnessHistory)-1])
	}
	if generateFlags.persist {
		fmt.Fprintf(out, "Run saved as %s\n", summary.RunID)
	}
	if generateFlags.artifactsDir != "" {
		runDir, err := writeRunArtifacts(summary)
		if err != nil {
			return fmt.Errorf("write artifacts: %w", err)
		}
		fmt.Fprintf(out, "Artifacts written to %s\n", runDir)
	}
	if generateFlags.output != "" {
		if err := export.WriteFile(summary.Skeletons, generateFlags.output); err != nil {
			return err
		}
		fmt.Fprintf(out, "Skeletons exported to %s\n", generateFlags.output)
	}
	return nil
}

// writeRunArtifacts records the run configuration, fitness history and the
// top ten skeletons under the artifacts directory and indexes the run.
func writeRunArtifacts(summary fabula.RunSummary) (string, error) {
	artifacts := stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:          summary.RunID,
			Seed:           summary.Seed,
			Skeletons:      len(summary.Skeletons),
			SpreadTypes:    generateFlags.spreads,
			MinBeats:       generateFlags.minBeats,
			MaxBeats:       generateFlags.maxBeats,
			Workers:        generateFlags.workers,
			Evolve:         generateFlags.evolve,
			Generations:    summary.GenerationsRun,
			MutationRate:   generateFlags.mutationRate,
			CrossoverRate:  generateFlags.crossoverRate,
			WildCardRate:   generateFlags.wildCardRate,
			TournamentSize: generateFlags.tournamentSize,
			Selection:      generateFlags.selection,
		},
		FitnessHistory: summary.FitnessHistory,
	}
	if best := summary.Best(); best != nil {
		artifacts.FinalBestScore = best.CoherenceScore()
	}
	top := summary.Skeletons
	if len(top) > 10 {
		top = top[:10]
	}
	for i, skeleton := range top {
		artifacts.TopSkeletons = append(artifacts.TopSkeletons, stats.TopSkeleton{
			Rank:     i + 1,
			Score:    skeleton.CoherenceScore(),
			Skeleton: *skeleton,
		})
	}

	runDir, err := stats.WriteRunArtifacts(generateFlags.artifactsDir, artifacts)
	if err != nil {
		return "", err
	}
	err = stats.AppendRunIndex(generateFlags.artifactsDir, stats.RunIndexEntry{
		RunID:          summary.RunID,
		Seed:           summary.Seed,
		Skeletons:      len(summary.Skeletons),
		Generations:    summary.GenerationsRun,
		FinalBestScore: artifacts.FinalBestScore,
		CreatedAtUTC:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return runDir, nil
}
