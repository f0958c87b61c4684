package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"portfolio/cli"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "portfolio",
	Short:        "Portfolio site backend: projects, status and live chat",
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(
		cli.NewServeCmd(),
		cli.NewChatCmd(),
		cli.NewAdminCmd(),
		cli.NewImportCmd(),
	)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
