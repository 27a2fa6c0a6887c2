package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/ardriveapp/astatine/node/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the distribution on a cron schedule",
	Long: `Keeps running and invokes a distribution run on the configured cron
schedule (UTC). A run that is still in progress when the next one is due
causes the next one to be skipped. The command stops when the partition
holding the ledger crosses the terminate threshold.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger, closer := newLogger("serve")
		defer closer.Close()

		ctx, cancel := signalContext()
		defer cancel()

		driver, ledger, err := newDriver(logger, false)
		if err != nil {
			logger.Error("could not start", zap.Error(err))
			os.Exit(1)
		}
		defer ledger.Close()

		if listen := NodeConfig.Schedule.MetricsListen; listen != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				logger.Fatal(
					"Failed to start prometheus server",
					zap.Error(http.ListenAndServe(listen, mux)),
				)
			}()
		}

		diskErr := make(chan error, 1)
		store.NewDiskMonitor(NodeConfig.Ledger, logger, diskErr).Start(ctx)

		cronLog := cronLogger{logger: logger.Named("cron").Sugar()}
		scheduler := cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		)

		_, err = scheduler.AddFunc(NodeConfig.Schedule.Cron, func() {
			outcome, err := driver.Run(ctx)
			if err != nil {
				logger.Error("scheduled run failed", zap.Error(err))
				return
			}
			logger.Info(
				"scheduled run finished",
				zap.Bool("eligible", outcome.Eligible),
				zap.String("reason", outcome.Reason),
				zap.Int64("balance", outcome.State.RemainingBalance),
			)
		})
		if err != nil {
			logger.Error(
				"invalid cron schedule",
				zap.String("cron", NodeConfig.Schedule.Cron),
				zap.Error(err),
			)
			os.Exit(1)
		}

		scheduler.Start()
		logger.Info("scheduler started", zap.String("cron", NodeConfig.Schedule.Cron))

		select {
		case <-ctx.Done():
		case err := <-diskErr:
			logger.Error("ledger disk full", zap.Error(err))
		}
		logger.Info("stopping scheduler")
		<-scheduler.Stop().Done()
	},
}

// cronLogger adapts zap to the logger interface of the cron scheduler.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
