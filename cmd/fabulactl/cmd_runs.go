package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fabula/internal/storage"
	"fabula/pkg/fabula"
)

var runsFlags struct {
	store  string
	dbPath string
}

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List persisted generation runs",
	Long: `List the runs persisted in the store. With a run ID, show that run's
skeletons and fitness history instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.StringVar(&runsFlags.store, "store", storage.DefaultStoreKind(), "Store backend: memory or sqlite")
	f.StringVar(&runsFlags.dbPath, "db", "", "SQLite database path (default fabula.db)")
}

func runRuns(cmd *cobra.Command, args []string) error {
	client, err := fabula.New(fabula.Options{
		StoreKind: runsFlags.store,
		DBPath:    runsFlags.dbPath,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	if err := client.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		return showRun(ctx, client, out, args[0])
	}

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs persisted.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  seed=%d skeletons=%d generations=%d best=%.4f  %s\n",
			run.ID, run.Config.Seed, run.SkeletonCount, run.GenerationsRun,
			run.BestScore, run.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func showRun(ctx context.Context, client *fabula.Client, out io.Writer, runID string) error {
	skeletons, err := client.Skeletons(ctx, runID)
	if err != nil {
		return err
	}
	if len(skeletons) == 0 {
		return fmt.Errorf("no skeletons persisted for run %s", runID)
	}

	fmt.Fprintf(out, "Run %s: %d skeletons\n", runID, len(skeletons))
	for _, record := range skeletons {
		fmt.Fprintf(out, "  %s  score=%.4f tone=%s beats=%d\n",
			record.ID, record.Skeleton.CoherenceScore(), record.Skeleton.Tone, len(record.Skeleton.Beats))
	}

	history, ok, err := client.FitnessHistory(ctx, runID)
	if err != nil {
		return err
	}
	if ok && len(history) > 0 {
		points := make([]string, len(history))
		for i, score := range history {
			points[i] = fmt.Sprintf("%.4f", score)
		}
		fmt.Fprintf(out, "Fitness history: %s\n", strings.Join(points, " "))
	}
	return nil
}
