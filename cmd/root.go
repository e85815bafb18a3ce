package cmd

import (
	"github.com/carousell/ct-go/pkg/logger/log"
	"github.com/nguyentranbao-ct/community-worker/internal/app"
	"github.com/nguyentranbao-ct/community-worker/internal/kafka"
	"github.com/nguyentranbao-ct/community-worker/internal/server"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "community-worker",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
			kafka.StartConsumer,
		).Run()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
