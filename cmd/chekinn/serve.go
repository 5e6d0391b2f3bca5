package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yungbote/chekinn-backend/internal/app"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.Serve(ctx)
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "worker",
		Short: "Run the Temporal worker for match generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.RunWorker(ctx)
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return app.Migrate(log)
		},
	})
}
