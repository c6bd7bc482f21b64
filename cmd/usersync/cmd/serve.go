package cmd

import (
	"github.com/spf13/cobra"

	"user-sync/cmd/usersync/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP facade and gRPC health server",
	Long:  "Runs the daemon: the HTTP facade over the user store, /metrics, the gRPC health service and, when Redis is enabled, the snapshot mirror.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context(), app.Options{ConfigPath: configPath})
		if err != nil {
			return err
		}

		serveErr := a.Serve(cmd.Context())
		closeErr := a.Close()
		if serveErr != nil {
			return serveErr
		}
		return closeErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
