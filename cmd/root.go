package main

import (
	"medical-tourism-concierge/cmd/bootstrap"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "concierge",
		Short:         "Medical tourism concierge API",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running without a subcommand serves the API.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(configPath)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", ".env", "path to the env file")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(*configPath)
		},
	}
}

func serve(configPath string) error {
	// Initialize application with all dependencies
	app, err := bootstrap.New(configPath)
	if err != nil {
		return err
	}

	// Run the application
	return app.Run()
}
