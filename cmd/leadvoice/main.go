package main

import (
	"os"

	"leadvoice/cmd/leadvoice/server"
	"leadvoice/cmd/leadvoice/setup"
	"leadvoice/cmd/leadvoice/worker"
	"leadvoice/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	logger.Init()
	rootCmd := &cobra.Command{
		Use:          "leadvoice",
		Short:        "Voice agents for lead qualification on LiveKit",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(setup.Cmd)
	rootCmd.AddCommand(server.Cmd)
	rootCmd.AddCommand(worker.Cmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
