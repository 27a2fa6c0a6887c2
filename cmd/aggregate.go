package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/ardriveapp/astatine/node/aggregator"
	"github.com/ardriveapp/astatine/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregates the uploads of the current window without distributing",
	Run: func(cmd *cobra.Command, args []string) {
		logger, closer := newLogger("aggregate")
		defer closer.Close()

		ctx, cancel := signalContext()
		defer cancel()

		window := aggregator.AnchoredWindow(
			time.Now(),
			NodeConfig.Window.Length,
			*NodeConfig.Window.AnchorHour,
		)
		result, err := newAggregator(logger).Aggregate(
			ctx,
			window,
			NodeConfig.Feed.PageSize,
		)
		if err != nil {
			logger.Error("aggregation failed", zap.Error(err))
			os.Exit(1)
		}

		fmt.Printf(
			"Window %s to %s\n",
			window.Start.Format(time.RFC3339),
			window.End.Format(time.RFC3339),
		)
		for i, r := range result.Recipients {
			fmt.Printf("%4d  %s  %s\n", i+1, r.Identity, utils.FormatBytes(r.Weight))
		}
		fmt.Printf(
			"%d recipients, %d below minimum, %s uploaded in %d records over %d pages\n",
			len(result.Recipients),
			result.Dropped,
			utils.FormatBytes(result.TotalBytes),
			result.Records,
			result.Pages,
		)
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
}
