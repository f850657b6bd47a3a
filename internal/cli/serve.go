package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ecoquest-app/ecoquest/internal/daemon"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the EcoQuest engine daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New(rootCmd.Version)
		if err != nil {
			return err
		}
		defer d.Close()

		return d.Serve(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
