package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fabulactl",
	Short: "Deterministic story-skeleton generation and evolution",
	Long: "Fabulactl draws story atoms into tarot-style spreads, walks beat\n" +
		"sequences through a Markov chain, scores the results against the world\n" +
		"rules and optionally refines them with an evolutionary loop. Every run\n" +
		"is reproducible from its seed.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(evolveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(spreadsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.Version = version
}

// run executes the command tree against the given arguments and output.
// Split from main so tests can drive the CLI in process.
func run(ctx context.Context, args []string, out io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
