package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/ardriveapp/astatine/node/distribution"
	"github.com/ardriveapp/astatine/node/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the ledger: balance, completion and recorded runs",
	Run: func(cmd *cobra.Command, args []string) {
		logger, closer := newLogger("status")
		defer closer.Close()

		profile, err := newProfile(logger)
		if err != nil {
			logger.Error("invalid emission profile", zap.Error(err))
			os.Exit(1)
		}

		ledger, err := store.NewLedgerStore(NodeConfig.Ledger, logger)
		if err != nil {
			logger.Error("could not open ledger", zap.Error(err))
			os.Exit(1)
		}
		defer ledger.Close()

		status, err := distribution.ReadStatus(
			ledger,
			profile,
			NodeConfig.Emission.BucketTicks,
			time.Now(),
		)
		if err != nil {
			logger.Error("could not read ledger", zap.Error(err))
			os.Exit(1)
		}

		if !status.Initialized {
			fmt.Printf("Ledger not initialised, budget %d\n", profile.TotalBudget)
			return
		}

		fmt.Printf(
			"Initialised: %s\n",
			time.UnixMilli(status.State.InitTimestamp).UTC().Format(time.RFC3339),
		)
		fmt.Printf("Curve: %s\n", profile.Kind)
		fmt.Printf("Tick: %d of %d\n", status.ElapsedTicks, profile.Ticks())
		fmt.Printf("Completion: %s%%\n", status.Completion.StringFixed(2))
		fmt.Printf("Expended: %d\n", status.Expended)
		fmt.Printf("Balance: %d\n", status.State.RemainingBalance)
		if status.PeriodEnded {
			fmt.Println("Emission period ended")
		}

		fmt.Printf("Runs: %d\n", len(status.State.Runs))
		for _, r := range status.State.Runs {
			complete := ""
			if !r.Complete {
				complete = " (incomplete)"
			}
			fmt.Printf(
				"  #%d tick %d expend %d distributed %d payouts %d%s\n",
				r.Sequence,
				r.ElapsedTicks,
				r.AmountExpended,
				r.Distributed(),
				len(r.Payouts),
				complete,
			)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
