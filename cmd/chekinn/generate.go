package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/chekinn-backend/internal/app"
)

type generateFlags struct {
	UserID      string
	Max         int
	ViaTemporal bool
}

func init() {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate-intros",
		Short: "Generate introductions for one user and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(f.UserID)
			if err != nil {
				return fmt.Errorf("--user must be a uuid: %w", err)
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				res, err := a.GenerateIntros(ctx, userID, f.Max, f.ViaTemporal)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.UserID, "user", "", "Requester user id")
	flags.IntVar(&f.Max, "max", 0, "Maximum suggestions to keep (0 uses MATCH_MAX_SUGGESTIONS)")
	flags.BoolVar(&f.ViaTemporal, "temporal", false, "Submit the run as a Temporal workflow instead of running in process")
	_ = cmd.MarkFlagRequired("user")
	rootCmd.AddCommand(cmd)
}
