package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "tickdone",
		Short: "tickdone - Terminal clock, timers and todo countdown",
		Long: `tickdone is a terminal-resident productivity tool combining a live
clock, a stopwatch, a countdown timer and a todo list with a sequential
focus-session mode that walks through tasks one at a time.

Run without arguments to launch the interactive UI. Subcommands operate
on the same data files non-interactively, so scripts and other tools
can mutate the list while the UI is running; it reloads automatically.`,
		RunE:          runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
