// Package cli implements the EcoQuest engine command-line interface using
// Cobra. Subcommands cover the daemon (serve) and quick local inspection
// of the gamification state (status, levels, reset).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecoquest",
	Short: "EcoQuest — gamified cleanup engine",
	Long: `EcoQuest engine: the gamification core behind the cleanup app.
Tracks XP, levels, badges and achievements; spawns cleanup encounters;
scores before/after photo submissions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
