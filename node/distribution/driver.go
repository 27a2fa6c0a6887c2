package distribution

import (
	"context"
	"time"

	"github.com/ardriveapp/astatine/config"
	"github.com/ardriveapp/astatine/node/aggregator"
	"github.com/ardriveapp/astatine/node/reward"
	"github.com/ardriveapp/astatine/node/store"
	tdistribution "github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Aggregator produces the weighted recipients of a run.
type Aggregator interface {
	Aggregate(
		ctx context.Context,
		window aggregator.Window,
		pageSize int,
	) (*aggregator.Result, error)
}

// Outcome describes a single invocation of the driver.
type Outcome struct {
	Eligible bool
	// Set when the invocation was not eligible.
	Reason             string
	DryRun             bool
	ElapsedTicks       int64
	ElapsedSeconds     int64
	PlannedExpenditure int64
	CurveRate          int64
	// Token units lost to truncation during allocation.
	Remainder   int64
	Aggregation *aggregator.Result
	Run         *tdistribution.RunRecord
	State       tdistribution.LedgerState
}

type Option func(*Driver)

// WithClock replaces the wall clock used to compute elapsed ticks and the
// aggregation window.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}

// Driver executes at most one distribution run per tick bucket: it decides
// eligibility from the ledger, gathers recipients, allocates, submits and
// records the run.
type Driver struct {
	cfg        *config.Config
	profile    *reward.Profile
	ledger     tdistribution.LedgerStore
	aggregator Aggregator
	submitter  tdistribution.Submitter
	dryRun     bool
	logger     *zap.Logger
	now        func() time.Time
}

func NewDriver(
	cfg *config.Config,
	profile *reward.Profile,
	ledger tdistribution.LedgerStore,
	agg Aggregator,
	submitter tdistribution.Submitter,
	dryRun bool,
	logger *zap.Logger,
	opts ...Option,
) *Driver {
	d := &Driver{
		cfg:        cfg,
		profile:    profile,
		ledger:     ledger,
		aggregator: agg,
		submitter:  submitter,
		dryRun:     dryRun,
		logger:     logger.Named("driver"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Run(ctx context.Context) (*Outcome, error) {
	start := time.Now()
	defer func() {
		runDuration.Observe(time.Since(start).Seconds())
	}()

	outcome, err := d.run(ctx)
	if err != nil && !errors.Is(err, ErrPartialSubmission) {
		runsTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "run")
	}

	runsTotal.WithLabelValues(outcomeLabel(outcome)).Inc()
	remainingBalance.Set(float64(outcome.State.RemainingBalance))
	if outcome.Run != nil && !d.dryRun {
		tokensExpendedTotal.Add(float64(outcome.Run.AmountExpended))
		remainderTotal.Add(float64(outcome.Remainder))
	}

	if err != nil {
		return outcome, errors.Wrap(err, "run")
	}
	return outcome, nil
}

func outcomeLabel(outcome *Outcome) string {
	switch {
	case !outcome.Eligible:
		return "not_eligible"
	case !outcome.Run.Complete:
		return "partial"
	case len(outcome.Run.Payouts) == 0:
		return "degenerate"
	default:
		return "completed"
	}
}

func (d *Driver) run(ctx context.Context) (*Outcome, error) {
	now := d.now()

	state, err := d.loadLedger(now)
	if err != nil {
		return nil, err
	}

	ticks := d.profile.ElapsedTicks(
		state.InitTimestamp,
		now.UnixMilli(),
		d.cfg.Emission.BucketTicks,
	)
	outcome := &Outcome{
		DryRun:         d.dryRun,
		ElapsedTicks:   ticks,
		ElapsedSeconds: ticks * d.profile.TickInterval,
		State:          state,
	}

	if reason := d.ineligible(state, outcome); reason != "" {
		outcome.Reason = reason
		d.logger.Info(
			"unmet conditions",
			zap.String("reason", reason),
			zap.Int64("elapsed_ticks", ticks),
			zap.Int64("planned_expenditure", outcome.PlannedExpenditure),
			zap.Int64("balance", state.RemainingBalance),
		)
		return outcome, nil
	}
	outcome.Eligible = true

	recipients, err := d.recipients(ctx, now, outcome)
	if err != nil {
		return nil, err
	}

	payouts := reward.Allocate(outcome.PlannedExpenditure, recipients)
	run := tdistribution.RunRecord{
		Sequence:       len(state.Runs) + 1,
		ElapsedSeconds: outcome.ElapsedSeconds,
		ElapsedTicks:   ticks,
		Complete:       true,
		Payouts:        payouts,
	}
	if len(payouts) > 0 {
		run.AmountExpended = outcome.PlannedExpenditure
		outcome.Remainder = reward.Remainder(outcome.PlannedExpenditure, payouts)
	} else {
		d.logger.Warn(
			"no recipients, recording run without expenditure",
			zap.Int64("elapsed_ticks", ticks),
		)
	}

	submitErr := d.submit(ctx, outcome, run.Payouts)
	if submitErr != nil {
		var prepErr *prepareError
		if d.cfg.Submission.OnFailure != config.OnFailureRecordPartial ||
			errors.As(submitErr, &prepErr) {
			return nil, &SubmissionError{Err: submitErr}
		}
		run.Complete = false
		run.AmountExpended = run.Distributed()
	}

	next := state.Clone()
	next.Runs = append(next.Runs, run)
	next.RemainingBalance -= run.AmountExpended

	if !d.dryRun {
		if err := d.ledger.Save(next); err != nil {
			return nil, errors.Wrap(err, "save ledger")
		}
	}

	outcome.State = next
	outcome.Run = &next.Runs[len(next.Runs)-1]

	d.logger.Info(
		"run recorded",
		zap.Int("run", run.Sequence),
		zap.Int64("elapsed_ticks", ticks),
		zap.Int64("expend", run.AmountExpended),
		zap.Int64("remainder", outcome.Remainder),
		zap.Int("payouts", len(run.Payouts)),
		zap.Int64("balance", next.RemainingBalance),
		zap.Bool("complete", run.Complete),
		zap.Bool("dry_run", d.dryRun),
	)

	if submitErr != nil {
		return outcome, &SubmissionError{Recorded: true, Err: submitErr}
	}
	return outcome, nil
}

// loadLedger returns the stored ledger, initialising it on first use.
func (d *Driver) loadLedger(now time.Time) (tdistribution.LedgerState, error) {
	state, err := d.ledger.Load()
	if err == nil {
		d.normalizeLegacyRuns(&state)
		return state, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return tdistribution.LedgerState{}, errors.Wrap(err, "load ledger")
	}

	state = tdistribution.LedgerState{
		InitTimestamp:    now.UnixMilli(),
		RemainingBalance: d.profile.TotalBudget,
		Runs:             []tdistribution.RunRecord{},
	}
	d.logger.Info(
		"initialising ledger",
		zap.Int64("time_init", state.InitTimestamp),
		zap.Int64("balance", state.RemainingBalance),
		zap.String("curve", string(d.profile.Kind)),
	)

	if d.dryRun {
		return state, nil
	}
	if err := d.ledger.Save(state); err != nil {
		return tdistribution.LedgerState{}, errors.Wrap(err, "initialise ledger")
	}
	return state, nil
}

// Ledgers written before ticks were recorded only carry elapsed seconds.
func (d *Driver) normalizeLegacyRuns(state *tdistribution.LedgerState) {
	for i := range state.Runs {
		r := &state.Runs[i]
		if r.ElapsedTicks == 0 && r.ElapsedSeconds > 0 {
			r.ElapsedTicks = r.ElapsedSeconds / d.profile.TickInterval
		}
	}
}

// ineligible fills in the planned expenditure and returns the reason the run
// must not happen, or an empty string.
func (d *Driver) ineligible(
	state tdistribution.LedgerState,
	outcome *Outcome,
) string {
	ticks := outcome.ElapsedTicks
	if ticks < 0 {
		return ReasonClockBehind
	}
	if ticks > d.profile.Ticks() {
		return ReasonPeriodEnded
	}

	outcome.CurveRate = d.profile.Rate(ticks)
	planned := outcome.CurveRate
	if d.cfg.Expenditure.Mode == config.ExpenditureFixed {
		planned = *d.cfg.Expenditure.FixedAmount
		if planned != outcome.CurveRate {
			d.logger.Warn(
				"fixed expenditure diverges from curve",
				zap.Int64("fixed", planned),
				zap.Int64("curve", outcome.CurveRate),
				zap.Int64("elapsed_ticks", ticks),
			)
		}
	}
	if planned > state.RemainingBalance && state.RemainingBalance > 0 {
		d.logger.Info(
			"expenditure capped to remaining balance",
			zap.Int64("planned", planned),
			zap.Int64("balance", state.RemainingBalance),
		)
		planned = state.RemainingBalance
	}
	outcome.PlannedExpenditure = planned

	switch {
	case planned <= 0:
		return ReasonNothingPlanned
	case state.RemainingBalance <= 0:
		return ReasonBalanceExhausted
	case state.HasRunAtOrAfter(ticks):
		return ReasonAlreadyRan
	}
	return ""
}

func (d *Driver) recipients(
	ctx context.Context,
	now time.Time,
	outcome *Outcome,
) (tdistribution.Recipients, error) {
	if len(d.cfg.Recipients.Static) > 0 {
		return tdistribution.IdentityList(d.cfg.Recipients.Static), nil
	}

	window := aggregator.AnchoredWindow(
		now,
		d.cfg.Window.Length,
		*d.cfg.Window.AnchorHour,
	)
	result, err := d.aggregator.Aggregate(ctx, window, d.cfg.Feed.PageSize)
	if err != nil {
		return nil, errors.Wrap(err, "gather recipients")
	}
	outcome.Aggregation = result
	return result.Recipients, nil
}
