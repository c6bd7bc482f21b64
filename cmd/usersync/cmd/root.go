package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"user-sync/cmd/usersync/app"
	"user-sync/cmd/usersync/server"
	"user-sync/pkg/logger"
)

// configPath is the directory holding app.env.
var configPath string

// rootCmd is the base command for the CLI. Subcommands are registered in the
// init functions of users.go, serve.go, journal.go and mirror.go.
var rootCmd = &cobra.Command{
	Use:           "usersync",
	Short:         "Keep a local user list in sync with a remote /users API",
	Long:          "Command line interface to run the user-sync daemon and to drive the user store one operation at a time.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory containing app.env (defaults to $CONFIG_PATH or .)")
}

// Execute runs the root command. It should be invoked from main.
func Execute() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withApp assembles the application for a one-shot command, runs fn and
// releases everything afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) (err error) {
	ctx, _ := logger.EnsureRequestID(cmd.Context())

	a, err := app.New(ctx, app.Options{ConfigPath: configPath, LogsToStderr: true})
	if err != nil {
		return err
	}
	defer func() {
		a.Container.FlushMirror(ctx)
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
