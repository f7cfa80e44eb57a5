package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "reactive",
		Short: "Replay reactivity scenarios",
		Long: `Replay small scenarios on a reactive runtime: signals, computed
values, watchers and render units, printing what runs and when.

Examples:
  reactive counter --times 5
  reactive todo --equality structural
  reactive cycle --log-level debug
  reactive counter --manual --metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.bind(cmd)

	cmd.AddCommand(
		counterCmd(opts),
		todoCmd(opts),
		cycleCmd(opts),
	)

	return cmd
}
