package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecoquest-app/ecoquest/internal/app/ledger"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the level catalog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-6s %-20s %10s\n", "LEVEL", "TITLE", "XP")
		for _, lvl := range ledger.Levels() {
			fmt.Printf("%-6d %-20s %10d\n", lvl.Level, lvl.Title, lvl.XPThreshold)
		}
	},
}

func init() {
	rootCmd.AddCommand(levelsCmd)
}
