package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"user-sync/cmd/usersync/app"
)

var mirrorID int64

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Print the user list mirrored in Redis",
	Long:  "Reads the snapshot the daemon last mirrored to Redis. With --id, prints a single mirrored user.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if a.Container.Mirror == nil {
				return errors.New("mirror is disabled (REDIS_ENABLED=false)")
			}

			if cmd.Flags().Changed("id") {
				u, err := a.Container.Mirror.Get(ctx, mirrorID)
				if err != nil {
					return err
				}
				if u == nil {
					return errors.New("user not mirrored")
				}
				return printJSON(cmd.OutOrStdout(), u)
			}

			users, err := a.Container.Mirror.List(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), users)
		})
	},
}

func init() {
	mirrorCmd.Flags().Int64Var(&mirrorID, "id", 0, "print only this user")

	rootCmd.AddCommand(mirrorCmd)
}
