package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardriveapp/astatine/config"
	"github.com/ardriveapp/astatine/node/aggregator"
	"github.com/ardriveapp/astatine/node/distribution"
	"github.com/ardriveapp/astatine/node/feed"
	"github.com/ardriveapp/astatine/node/reward"
	"github.com/ardriveapp/astatine/node/store"
	tdistribution "github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func newLogger(component string) (*zap.Logger, io.Closer) {
	logger, closer, err := NodeConfig.CreateLogger(component, debug)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	return logger, closer
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newProfile(logger *zap.Logger) (*reward.Profile, error) {
	profile, err := reward.ProfileFromConfig(NodeConfig.Emission)
	if err != nil {
		return nil, errors.Wrap(err, "new profile")
	}

	logger.Info(
		"emission profile",
		zap.String("curve", string(profile.Kind)),
		zap.Int64("total", profile.TotalBudget),
		zap.Int64("ticks", profile.Ticks()),
		zap.Int64("period", profile.Period),
		zap.Int64("tick_interval", profile.TickInterval),
		zap.Float64("initial_rate", profile.InitialRate),
		zap.String("expenditure", NodeConfig.Expenditure.Mode),
	)
	return profile, nil
}

func newAggregator(logger *zap.Logger) *aggregator.Aggregator {
	return aggregator.NewAggregator(
		feed.NewGraphQLFeed(NodeConfig.Feed, logger),
		aggregator.OptionsFromConfig(NodeConfig.Feed, NodeConfig.Aggregation),
		logger,
	)
}

// newDriver wires the driver with the configured collaborators. The returned
// ledger must be closed by the caller. The dry-run submission mode sends
// nothing, so it also keeps the ledger untouched.
func newDriver(
	logger *zap.Logger,
	dryRun bool,
) (*distribution.Driver, tdistribution.LedgerStore, error) {
	if !dryRun && NodeConfig.Submission.Mode == config.SubmissionDryRun {
		logger.Warn(
			"submission mode is dry-run, the ledger will not be saved",
			zap.String("mode", NodeConfig.Submission.Mode),
		)
		dryRun = true
	}

	profile, err := newProfile(logger)
	if err != nil {
		return nil, nil, err
	}

	submitter, err := submitterFor(logger, dryRun)
	if err != nil {
		return nil, nil, err
	}

	ledger, err := store.NewLedgerStore(NodeConfig.Ledger, logger)
	if err != nil {
		return nil, nil, err
	}

	return distribution.NewDriver(
		NodeConfig,
		profile,
		ledger,
		newAggregator(logger),
		submitter,
		dryRun,
		logger,
	), ledger, nil
}
