package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecoquest-app/ecoquest/internal/app/ledger"
	"github.com/ecoquest-app/ecoquest/internal/app/wallet"
	"github.com/ecoquest-app/ecoquest/internal/daemon"
	"github.com/ecoquest-app/ecoquest/internal/infra/sqlite"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local gamification state",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := sqlite.Open(daemon.Home())
		if err != nil {
			return err
		}
		defer db.Close()

		lgr := ledger.New(db)
		defer lgr.Close()

		snap := lgr.Snapshot()
		p := snap.Progress

		fmt.Printf("Level %d — %s\n", p.Current.Level, p.Current.Title)
		fmt.Printf("  Total XP:   %d\n", snap.TotalXP)
		if p.AtMax() {
			fmt.Printf("  Progress:   max level reached\n")
		} else {
			fmt.Printf("  Progress:   %d/%d XP to %s (%.0f%%)\n",
				p.XPIntoLevel, p.XPSpan, p.Next.Title, p.Percent)
		}
		fmt.Printf("  This week:  %d XP\n", snap.WeeklyXP)
		fmt.Printf("  This month: %d XP\n", snap.MonthlyXP)
		fmt.Printf("  Streak:     %d days\n", snap.Streak)

		earned := 0
		for _, b := range snap.Badges {
			if b.Earned() {
				earned++
			}
		}
		completed := 0
		for _, a := range snap.Achievements {
			if a.Completed {
				completed++
			}
		}
		fmt.Printf("  Badges:     %d/%d earned\n", earned, len(snap.Badges))
		fmt.Printf("  Achievements: %d/%d completed\n", completed, len(snap.Achievements))

		if leaves, err := wallet.NewService(db).Balance(); err == nil {
			fmt.Printf("  Leaves:     %d\n", leaves)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
