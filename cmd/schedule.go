package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scheduleSummary bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Prints the emission rate of every tick and the derived total",
	Run: func(cmd *cobra.Command, args []string) {
		logger, closer := newLogger("schedule")
		defer closer.Close()

		profile, err := newProfile(logger)
		if err != nil {
			logger.Error("invalid emission profile", zap.Error(err))
			os.Exit(1)
		}

		if !scheduleSummary {
			fmt.Println("tick\trate\tcumulative")
			for _, row := range profile.Schedule() {
				fmt.Printf("%d\t%d\t%d\n", row.Tick, row.Rate, row.Cumulative)
			}
		}

		fmt.Printf(
			"Curve %s over %d ticks, total %d\n",
			profile.Kind,
			profile.Ticks()+1,
			profile.TotalBudget,
		)
	},
}

func init() {
	scheduleCmd.Flags().BoolVar(
		&scheduleSummary,
		"summary",
		false,
		"only print the total",
	)
	rootCmd.AddCommand(scheduleCmd)
}
