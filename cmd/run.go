package cmd

import (
	"fmt"
	"os"

	"github.com/ardriveapp/astatine/node/distribution"
	"github.com/ardriveapp/astatine/node/submit"
	tdistribution "github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Performs a single distribution run if one is due",
	Long: `Loads the ledger, decides whether a run is due for the current tick and,
if so, aggregates the uploads of the window, allocates the run's expenditure
and submits the transfers. With --dry-run nothing is sent or saved.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger, closer := newLogger("run")
		defer closer.Close()

		ctx, cancel := signalContext()
		defer cancel()

		driver, ledger, err := newDriver(logger, dryRun)
		if err != nil {
			logger.Error("could not start run", zap.Error(err))
			os.Exit(1)
		}

		outcome, err := driver.Run(ctx)
		ledger.Close()
		if outcome != nil {
			printOutcome(outcome)
		}
		if err != nil {
			logger.Error(
				"run failed",
				zap.Bool("partial", errors.Is(err, distribution.ErrPartialSubmission)),
				zap.Error(err),
			)
			os.Exit(1)
		}
	},
}

func submitterFor(
	logger *zap.Logger,
	dryRun bool,
) (tdistribution.Submitter, error) {
	return submit.NewSubmitter(NodeConfig.Submission, dryRun, logger)
}

func printOutcome(outcome *distribution.Outcome) {
	if !outcome.Eligible {
		fmt.Printf(
			"No run: %s (tick %d, planned %d, balance %d)\n",
			outcome.Reason,
			outcome.ElapsedTicks,
			outcome.PlannedExpenditure,
			outcome.State.RemainingBalance,
		)
		return
	}

	run := outcome.Run
	prefix := ""
	if outcome.DryRun {
		prefix = "[dry run] "
	}
	fmt.Printf(
		"%sRun %d at tick %d: expended %d, remainder %d, balance %d\n",
		prefix,
		run.Sequence,
		run.ElapsedTicks,
		run.AmountExpended,
		outcome.Remainder,
		outcome.State.RemainingBalance,
	)
	for _, p := range run.Payouts {
		status := "sent"
		if !p.Sent {
			status = "unsent"
		}
		fmt.Printf("  %s %d %s %s\n", p.Recipient, p.Quantity, status, p.SubmissionID)
	}
}

func init() {
	runCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"log transfers instead of sending them and leave the ledger untouched",
	)
	rootCmd.AddCommand(runCmd)
}
