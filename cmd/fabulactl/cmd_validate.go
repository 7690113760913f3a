package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fabula/internal/export"
)

var validateCmd = &cobra.Command{
	Use:   "validate <skeletons.json>",
	Short: "Check skeletons against the world rules",
	Long: `Validate skeletons from a JSON file against the world invariants.
Tendencies are not applied; each skeleton is reported with its hard and
soft violations. The command fails if any skeleton breaks a hard rule.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
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
	invalid := 0
	for i, skeleton := range skeletons {
		result := client.Validate(skeleton)
		status := "valid"
		if !result.Valid {
			status = "INVALID"
			invalid++
		}
		fmt.Fprintf(out, "skeleton %d: %s\n", i, status)
		for _, v := range result.HardViolations {
			fmt.Fprintf(out, "  hard: %s\n", v)
		}
		for _, v := range result.SoftViolations {
			fmt.Fprintf(out, "  soft: %s\n", v)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d skeletons break hard rules", invalid, len(skeletons))
	}
	fmt.Fprintf(out, "All %d skeletons valid\n", len(skeletons))
	return nil
}
