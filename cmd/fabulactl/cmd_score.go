package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fabula/internal/export"
)

var scoreFlags struct {
	output string
}

var scoreCmd = &cobra.Command{
	Use:   "score <skeletons.json>",
	Short: "Score skeletons for narrative coherence",
	Long: `Recompute the coherence score of each skeleton in a JSON file.
With --output the rescored skeletons are written back out.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreFlags.output, "output", "o", "", "Write rescored skeletons to this file")
}

func runScore(cmd *cobra.Command, args []string) error {
	skeletons, err := export.LoadSkeletons(args[0])
	if err != nil {
		return err
	}

	client, err := newLocalClient()
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	for i, skeleton := range skeletons {
		score := client.Score(skeleton)
		fmt.Fprintf(out, "skeleton %d: %.4f (tone %s, %d beats)\n", i, score, skeleton.Tone, len(skeleton.Beats))
	}

	if scoreFlags.output != "" {
		if err := export.WriteFile(skeletons, scoreFlags.output); err != nil {
			return err
		}
		fmt.Fprintf(out, "Rescored skeletons saved to %s\n", scoreFlags.output)
	}
	return nil
}
