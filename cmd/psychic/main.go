package main

import (
	"os"

	"psychic-poker/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var mode string
	root := &cobra.Command{
		Use:          "psychic",
		Short:        "Best poker hand reachable by a player who can see the top of the deck",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitLoggerTo(mode, "stderr")
		},
	}
	root.PersistentFlags().StringVar(&mode, "log-mode", "release", "logger mode (debug or release)")
	root.AddCommand(newSolveCmd(), newDealCmd())
	return root
}
