package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecoquest-app/ecoquest/internal/app/ledger"
	"github.com/ecoquest-app/ecoquest/internal/daemon"
	"github.com/ecoquest-app/ecoquest/internal/infra/sqlite"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all gamification progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			fmt.Print("This wipes XP, badges and achievements. Type 'reset' to confirm: ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(line) != "reset" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		db, err := sqlite.Open(daemon.Home())
		if err != nil {
			return err
		}
		defer db.Close()

		lgr := ledger.New(db)
		lgr.Reset()
		lgr.Close()

		fmt.Println("Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip confirmation")
	rootCmd.AddCommand(resetCmd)
}
