package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"user-sync/cmd/usersync/app"
	domain "user-sync/internal/domain/user"
)

var (
	// user fields for create/update
	userID       int64
	userName     string
	userUsername string
	userEmail    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch and print all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Container.Store.FetchUsers(ctx); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a.Container.Store.Users())
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long:  "Creates a user remotely. Fields that are not given default to the provisional user (id 0, \"New User\", \"New\", \"New Email\").",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := domain.Provisional()
		applyUserFlags(cmd, &u)

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			created, err := a.Container.Store.CreateUser(ctx, u)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a user by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("id") {
			return errors.New("--id must be specified")
		}
		u := domain.User{}
		applyUserFlags(cmd, &u)

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			updated, err := a.Container.Store.UpdateUser(ctx, u)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("id") {
			return errors.New("--id must be specified")
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Container.Store.DeleteUser(ctx, domain.User{ID: userID}); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": userID})
		})
	},
}

// applyUserFlags overwrites the fields of u whose flags were set.
func applyUserFlags(cmd *cobra.Command, u *domain.User) {
	flags := cmd.Flags()
	if flags.Changed("id") {
		u.ID = userID
	}
	if flags.Changed("name") {
		u.Name = userName
	}
	if flags.Changed("username") {
		u.Username = userUsername
	}
	if flags.Changed("email") {
		u.Email = userEmail
	}
}

func init() {
	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().Int64Var(&userID, "id", 0, "user ID")
		c.Flags().StringVar(&userName, "name", "", "full name")
		c.Flags().StringVar(&userUsername, "username", "", "username")
		c.Flags().StringVar(&userEmail, "email", "", "email address")
	}
	deleteCmd.Flags().Int64Var(&userID, "id", 0, "user ID")

	rootCmd.AddCommand(listCmd, createCmd, updateCmd, deleteCmd)
}
