package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var spreadsCmd = &cobra.Command{
	Use:   "spreads",
	Short: "List the known spread layouts",
	RunE:  runSpreads,
}

func runSpreads(cmd *cobra.Command, _ []string) error {
	client, err := newLocalClient()
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	for _, name := range client.SpreadTypes() {
		fmt.Fprintln(out, name)
	}
	return nil
}
