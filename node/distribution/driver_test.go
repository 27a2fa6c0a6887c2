package distribution_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardriveapp/astatine/config"
	"github.com/ardriveapp/astatine/node/aggregator"
	"github.com/ardriveapp/astatine/node/distribution"
	"github.com/ardriveapp/astatine/node/reward"
	"github.com/ardriveapp/astatine/node/store"
	tdistribution "github.com/ardriveapp/astatine/types/distribution"
	"github.com/ardriveapp/astatine/types/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var initTime = time.Date(2020, 9, 1, 16, 0, 0, 0, time.UTC)

// day returns a point in time shortly after the start of the given tick.
func day(n int) time.Time {
	return initTime.Add(time.Duration(n)*24*time.Hour + time.Minute)
}

func clock(t time.Time) distribution.Option {
	return distribution.WithClock(func() time.Time { return t })
}

func testConfig() *config.Config {
	return config.DefaultConfig()
}

func testProfile(t *testing.T, cfg *config.Config) *reward.Profile {
	t.Helper()
	p, err := reward.ProfileFromConfig(cfg.Emission)
	require.NoError(t, err)
	return p
}

func stateWith(balance int64, runs ...tdistribution.RunRecord) tdistribution.LedgerState {
	if runs == nil {
		runs = []tdistribution.RunRecord{}
	}
	return tdistribution.LedgerState{
		InitTimestamp:    initTime.UnixMilli(),
		RemainingBalance: balance,
		Runs:             runs,
	}
}

func weighted(recipients ...tdistribution.WeightedRecipient) *aggregator.Result {
	result := &aggregator.Result{Recipients: recipients}
	for _, r := range recipients {
		result.TotalBytes += r.Weight
	}
	return result
}

func target(address string) interface{} {
	return mock.MatchedBy(func(i tdistribution.TransferInstruction) bool {
		return i.Target == address
	})
}

func TestRun_InitialisesLedgerAndRuns(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients.Static = []string{"addr-a", "addr-b"}
	profile := testProfile(t, cfg)
	now := initTime

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(tdistribution.LedgerState{}, store.ErrNotFound).Once()
	ledger.On("Save", mock.MatchedBy(func(s tdistribution.LedgerState) bool {
		return len(s.Runs) == 0
	})).Return(nil).Once()
	ledger.On("Save", mock.MatchedBy(func(s tdistribution.LedgerState) bool {
		return len(s.Runs) == 1
	})).Return(nil).Once()

	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, target("addr-a")).Return("tx-a", nil).Once()
	submitter.On("Submit", mock.Anything, target("addr-b")).Return("tx-b", nil).Once()

	d := distribution.NewDriver(
		cfg, profile, ledger, nil, submitter, false, zap.NewNop(), clock(now),
	)
	outcome, err := d.Run(context.Background())
	require.NoError(t, err)

	require.True(t, outcome.Eligible)
	assert.Equal(t, int64(0), outcome.ElapsedTicks)
	assert.Equal(t, now.UnixMilli(), outcome.State.InitTimestamp)
	assert.Equal(t, profile.TotalBudget-800, outcome.State.RemainingBalance)

	require.NotNil(t, outcome.Run)
	assert.Equal(t, 1, outcome.Run.Sequence)
	assert.Equal(t, int64(800), outcome.Run.AmountExpended)
	assert.True(t, outcome.Run.Complete)
	assert.Equal(t, []tdistribution.Payout{
		{SubmissionID: "tx-a", Recipient: "addr-a", Quantity: 400, Sent: true},
		{SubmissionID: "tx-b", Recipient: "addr-b", Quantity: 400, Sent: true},
	}, outcome.Run.Payouts)

	ledger.AssertExpectations(t)
	submitter.AssertExpectations(t)
}

func TestRun_WeightedRun(t *testing.T) {
	cfg := testConfig()
	profile := testProfile(t, cfg)
	now := day(2)

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(stateWith(10000), nil).Once()
	ledger.On("Save", mock.Anything).Return(nil).Once()

	agg := &mocks.MockAggregator{}
	agg.On("Aggregate", mock.Anything, aggregator.Window{
		Start: time.Date(2020, 9, 2, 16, 0, 0, 0, time.UTC),
		End:   time.Date(2020, 9, 3, 16, 0, 0, 0, time.UTC),
	}, 100).Return(weighted(
		tdistribution.WeightedRecipient{Identity: "addr-a", Weight: 300},
		tdistribution.WeightedRecipient{Identity: "addr-b", Weight: 100},
	), nil).Once()

	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, mock.MatchedBy(
		func(i tdistribution.TransferInstruction) bool {
			input, _ := i.Tag("Input")
			completion, _ := i.Tag("Completion")
			function, _ := i.Tag("Function")
			return i.Target == "addr-a" &&
				input == `{"function":"transfer","target":"addr-a","qty":600}` &&
				completion == "0.547945" &&
				function == "flat"
		},
	)).Return("tx-a", nil).Once()
	submitter.On("Submit", mock.Anything, target("addr-b")).Return("tx-b", nil).Once()

	d := distribution.NewDriver(
		cfg, profile, ledger, agg, submitter, false, zap.NewNop(), clock(now),
	)
	outcome, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), outcome.ElapsedTicks)
	assert.Equal(t, int64(2*86400), outcome.ElapsedSeconds)
	assert.Equal(t, int64(9200), outcome.State.RemainingBalance)
	assert.Equal(t, uint64(400), outcome.Aggregation.TotalBytes)
	assert.Equal(t, []tdistribution.Payout{
		{SubmissionID: "tx-a", Recipient: "addr-a", Quantity: 600, WeightBasis: 300, Weighted: true, Sent: true},
		{SubmissionID: "tx-b", Recipient: "addr-b", Quantity: 200, WeightBasis: 100, Weighted: true, Sent: true},
	}, outcome.Run.Payouts)

	ledger.AssertExpectations(t)
	agg.AssertExpectations(t)
	submitter.AssertExpectations(t)
}

func TestRun_IdempotentWithinTick(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients.Static = []string{"addr-a"}
	profile := testProfile(t, cfg)
	ledger := store.NewFileLedger(filepath.Join(t.TempDir(), "status.json"), zap.NewNop())
	require.NoError(t, ledger.Save(stateWith(profile.TotalBudget)))

	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, target("addr-a")).Return("tx", nil).Once()

	first := distribution.NewDriver(
		cfg, profile, ledger, nil, submitter, false, zap.NewNop(), clock(day(1)),
	)
	outcome, err := first.Run(context.Background())
	require.NoError(t, err)
	require.True(t, outcome.Eligible)

	second := distribution.NewDriver(
		cfg, profile, ledger, nil, submitter, false, zap.NewNop(),
		clock(day(1).Add(3*time.Hour)),
	)
	outcome, err = second.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.Eligible)
	assert.Equal(t, distribution.ReasonAlreadyRan, outcome.Reason)

	state, err := ledger.Load()
	require.NoError(t, err)
	assert.Len(t, state.Runs, 1)
	assert.Equal(t, profile.TotalBudget-800, state.RemainingBalance)
	submitter.AssertExpectations(t)
}

func TestRun_CurveExpenditure(t *testing.T) {
	exponentialDecay := 1e-7

	tests := []struct {
		name  string
		decay *float64
		// Whether the rate at tick 100 is below the initial rate.
		decays bool
	}{
		{name: "flat", decay: new(float64)},
		{name: "linear", decay: nil, decays: true},
		{name: "exponential", decay: &exponentialDecay, decays: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Emission.DecayConstant = tt.decay
			cfg.Expenditure.Mode = config.ExpenditureCurve
			cfg.Recipients.Static = []string{"addr-a"}
			profile := testProfile(t, cfg)

			rate := profile.Rate(100)
			require.Greater(t, rate, int64(0))
			if tt.decays {
				require.Less(t, rate, int64(800))
			} else {
				require.Equal(t, int64(800), rate)
			}

			ledger := &mocks.MockLedgerStore{}
			ledger.On("Load").Return(stateWith(10000), nil).Once()
			ledger.On("Save", mock.Anything).Return(nil).Once()

			submitter := &mocks.MockSubmitter{}
			submitter.On("Submit", mock.Anything, mock.MatchedBy(
				func(i tdistribution.TransferInstruction) bool {
					function, _ := i.Tag("Function")
					return i.Target == "addr-a" &&
						i.Quantity == rate &&
						function == string(profile.Kind)
				},
			)).Return("tx", nil).Once()

			core, logs := observer.New(zap.WarnLevel)
			d := distribution.NewDriver(
				cfg, profile, ledger, nil, submitter, false, zap.New(core),
				clock(day(100)),
			)
			outcome, err := d.Run(context.Background())
			require.NoError(t, err)

			require.True(t, outcome.Eligible)
			assert.Equal(t, int64(100), outcome.ElapsedTicks)
			assert.Equal(t, rate, outcome.CurveRate)
			assert.Equal(t, rate, outcome.PlannedExpenditure)
			assert.Equal(t, rate, outcome.Run.AmountExpended)
			assert.Equal(t, 10000-rate, outcome.State.RemainingBalance)
			assert.Equal(t, 0, logs.FilterMessage("fixed expenditure diverges from curve").Len())
			submitter.AssertExpectations(t)
		})
	}
}

func TestRun_BucketTicksIdempotence(t *testing.T) {
	cfg := testConfig()
	cfg.Emission.BucketTicks = 7
	cfg.Recipients.Static = []string{"addr-a"}
	profile := testProfile(t, cfg)
	ledger := store.NewFileLedger(filepath.Join(t.TempDir(), "status.json"), zap.NewNop())
	require.NoError(t, ledger.Save(stateWith(profile.TotalBudget)))

	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, target("addr-a")).Return("tx", nil).Twice()

	runAt := func(now time.Time) *distribution.Outcome {
		d := distribution.NewDriver(
			cfg, profile, ledger, nil, submitter, false, zap.NewNop(), clock(now),
		)
		outcome, err := d.Run(context.Background())
		require.NoError(t, err)
		return outcome
	}

	first := runAt(day(9))
	require.True(t, first.Eligible)
	assert.Equal(t, int64(7), first.ElapsedTicks)

	second := runAt(day(13))
	assert.False(t, second.Eligible)
	assert.Equal(t, int64(7), second.ElapsedTicks)
	assert.Equal(t, distribution.ReasonAlreadyRan, second.Reason)

	third := runAt(day(14))
	require.True(t, third.Eligible)
	assert.Equal(t, int64(14), third.ElapsedTicks)

	state, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, state.Runs, 2)
	assert.Equal(t, int64(7), state.Runs[0].ElapsedTicks)
	assert.Equal(t, int64(14), state.Runs[1].ElapsedTicks)
	assert.Equal(t, profile.TotalBudget-1600, state.RemainingBalance)
	submitter.AssertExpectations(t)
}

func TestRun_NotEligible(t *testing.T) {
	linear := testConfig()
	linear.Emission.DecayConstant = nil
	linear.Expenditure.Mode = config.ExpenditureCurve

	paused := testConfig()
	zero := int64(0)
	paused.Expenditure.FixedAmount = &zero

	tests := []struct {
		name   string
		cfg    *config.Config
		state  tdistribution.LedgerState
		now    time.Time
		reason string
	}{
		{
			name:   "clock behind",
			cfg:    testConfig(),
			state:  stateWith(1000),
			now:    initTime.Add(-48 * time.Hour),
			reason: distribution.ReasonClockBehind,
		},
		{
			name:   "period ended",
			cfg:    testConfig(),
			state:  stateWith(1000),
			now:    day(366),
			reason: distribution.ReasonPeriodEnded,
		},
		{
			name:   "balance exhausted",
			cfg:    testConfig(),
			state:  stateWith(0),
			now:    day(3),
			reason: distribution.ReasonBalanceExhausted,
		},
		{
			name:   "curve reached zero",
			cfg:    linear,
			state:  stateWith(1000),
			now:    day(365),
			reason: distribution.ReasonNothingPlanned,
		},
		{
			name:   "fixed amount paused",
			cfg:    paused,
			state:  stateWith(1000),
			now:    day(3),
			reason: distribution.ReasonNothingPlanned,
		},
		{
			name: "already ran later",
			cfg:  testConfig(),
			state: stateWith(1000, tdistribution.RunRecord{
				Sequence:     1,
				ElapsedTicks: 5,
			}),
			now:    day(4),
			reason: distribution.ReasonAlreadyRan,
		},
		{
			name: "legacy run without ticks",
			cfg:  testConfig(),
			state: stateWith(1000, tdistribution.RunRecord{
				Sequence:       1,
				ElapsedSeconds: 86400,
			}),
			now:    day(1),
			reason: distribution.ReasonAlreadyRan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mocks.MockLedgerStore{}
			ledger.On("Load").Return(tt.state, nil).Once()
			agg := &mocks.MockAggregator{}
			submitter := &mocks.MockSubmitter{}

			d := distribution.NewDriver(
				tt.cfg, testProfile(t, tt.cfg), ledger, agg, submitter,
				false, zap.NewNop(), clock(tt.now),
			)
			outcome, err := d.Run(context.Background())
			require.NoError(t, err)
			assert.False(t, outcome.Eligible)
			assert.Equal(t, tt.reason, outcome.Reason)
			assert.Nil(t, outcome.Run)

			ledger.AssertNotCalled(t, "Save", mock.Anything)
			agg.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything, mock.Anything)
			submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
		})
	}
}

func TestRun_DegenerateRecipients(t *testing.T) {
	cfg := testConfig()
	profile := testProfile(t, cfg)

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(stateWith(5000), nil).Once()
	ledger.On("Save", mock.Anything).Return(nil).Once()

	agg := &mocks.MockAggregator{}
	agg.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).
		Return(weighted(), nil).Once()
	submitter := &mocks.MockSubmitter{}

	d := distribution.NewDriver(
		cfg, profile, ledger, agg, submitter, false, zap.NewNop(), clock(day(7)),
	)
	outcome, err := d.Run(context.Background())
	require.NoError(t, err)

	require.True(t, outcome.Eligible)
	assert.Equal(t, int64(0), outcome.Run.AmountExpended)
	assert.Empty(t, outcome.Run.Payouts)
	assert.True(t, outcome.Run.Complete)
	assert.Equal(t, int64(5000), outcome.State.RemainingBalance)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	ledger.AssertExpectations(t)
}

func TestRun_ZeroQuantityNotSubmitted(t *testing.T) {
	cfg := testConfig()
	profile := testProfile(t, cfg)

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(stateWith(5000), nil).Once()
	ledger.On("Save", mock.Anything).Return(nil).Once()

	agg := &mocks.MockAggregator{}
	agg.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).Return(weighted(
		tdistribution.WeightedRecipient{Identity: "addr-a", Weight: 1000000},
		tdistribution.WeightedRecipient{Identity: "addr-b", Weight: 1},
	), nil).Once()

	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, target("addr-a")).Return("tx-a", nil).Once()

	d := distribution.NewDriver(
		cfg, profile, ledger, agg, submitter, false, zap.NewNop(), clock(day(1)),
	)
	outcome, err := d.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, outcome.Run.Payouts, 2)
	assert.Equal(t, int64(799), outcome.Run.Payouts[0].Quantity)
	assert.True(t, outcome.Run.Payouts[0].Sent)
	assert.Equal(t, int64(0), outcome.Run.Payouts[1].Quantity)
	assert.False(t, outcome.Run.Payouts[1].Sent)
	assert.Equal(t, int64(1), outcome.Remainder)
	assert.Equal(t, int64(800), outcome.Run.AmountExpended)
	submitter.AssertExpectations(t)
}

func TestRun_ExpenditureCappedToBalance(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients.Static = []string{"addr-a", "addr-b"}
	profile := testProfile(t, cfg)

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(stateWith(500), nil).Once()
	ledger.On("Save", mock.Anything).Return(nil).Once()

	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, mock.Anything).Return("tx", nil).Twice()

	d := distribution.NewDriver(
		cfg, profile, ledger, nil, submitter, false, zap.NewNop(), clock(day(1)),
	)
	outcome, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(500), outcome.PlannedExpenditure)
	assert.Equal(t, int64(250), outcome.Run.Payouts[0].Quantity)
	assert.Equal(t, int64(0), outcome.State.RemainingBalance)
}

func TestRun_FixedExpenditureLogsCurveDivergence(t *testing.T) {
	cfg := testConfig()
	cfg.Emission.DecayConstant = nil
	cfg.Recipients.Static = []string{"addr-a"}
	profile := testProfile(t, cfg)

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(stateWith(profile.TotalBudget), nil).Once()
	ledger.On("Save", mock.Anything).Return(nil).Once()

	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, mock.Anything).Return("tx", nil).Once()

	core, logs := observer.New(zap.WarnLevel)
	d := distribution.NewDriver(
		cfg, profile, ledger, nil, submitter, false, zap.New(core), clock(day(100)),
	)
	outcome, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(800), outcome.PlannedExpenditure)
	assert.Equal(t, profile.Rate(100), outcome.CurveRate)
	require.Equal(t, 1, logs.FilterMessage("fixed expenditure diverges from curve").Len())
}

func TestRun_AggregationFailureLeavesLedger(t *testing.T) {
	cfg := testConfig()
	profile := testProfile(t, cfg)

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(stateWith(5000), nil).Once()
	agg := &mocks.MockAggregator{}
	agg.On("Aggregate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("feed transport failure")).Once()

	d := distribution.NewDriver(
		cfg, profile, ledger, agg, &mocks.MockSubmitter{}, false, zap.NewNop(),
		clock(day(1)),
	)
	outcome, err := d.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, outcome)
	ledger.AssertNotCalled(t, "Save", mock.Anything)
}

func TestRun_AbortOnSubmissionFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients.Static = []string{"addr-a", "addr-b", "addr-c"}
	profile := testProfile(t, cfg)

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(stateWith(5000), nil).Once()

	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, target("addr-a")).Return("tx-a", nil).Once()
	submitter.On("Submit", mock.Anything, target("addr-b")).
		Return("", context.DeadlineExceeded).Once()

	d := distribution.NewDriver(
		cfg, profile, ledger, nil, submitter, false, zap.NewNop(), clock(day(1)),
	)
	outcome, err := d.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, distribution.ErrSubmission))
	assert.False(t, errors.Is(err, distribution.ErrPartialSubmission))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Nil(t, outcome)

	ledger.AssertNotCalled(t, "Save", mock.Anything)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, target("addr-c"))
}

func TestRun_RecordPartialOnSubmissionFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients.Static = []string{"addr-a", "addr-b", "addr-c", "addr-d"}
	cfg.Submission.OnFailure = config.OnFailureRecordPartial
	profile := testProfile(t, cfg)

	var saved tdistribution.LedgerState
	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(stateWith(5000), nil).Once()
	ledger.On("Save", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(0).(tdistribution.LedgerState)
	}).Return(nil).Once()

	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, target("addr-a")).Return("tx-a", nil).Once()
	gatewayErr := errors.New("gateway timeout")
	submitter.On("Submit", mock.Anything, target("addr-b")).
		Return("", gatewayErr).Once()

	d := distribution.NewDriver(
		cfg, profile, ledger, nil, submitter, false, zap.NewNop(), clock(day(1)),
	)
	outcome, err := d.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, distribution.ErrPartialSubmission))
	assert.False(t, errors.Is(err, distribution.ErrSubmission))
	assert.True(t, errors.Is(err, gatewayErr))

	var submitErr *distribution.SubmissionError
	require.True(t, errors.As(err, &submitErr))
	assert.True(t, submitErr.Recorded)
	require.NotNil(t, outcome)

	require.Len(t, saved.Runs, 1)
	run := saved.Runs[0]
	assert.False(t, run.Complete)
	assert.Equal(t, int64(200), run.AmountExpended)
	assert.Equal(t, int64(4800), saved.RemainingBalance)
	assert.True(t, run.Payouts[0].Sent)
	assert.Equal(t, "tx-a", run.Payouts[0].SubmissionID)
	for _, p := range run.Payouts[1:] {
		assert.False(t, p.Sent)
		assert.Empty(t, p.SubmissionID)
	}
}

func TestRun_DryRunDoesNotPersist(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients.Static = []string{"addr-a"}
	profile := testProfile(t, cfg)

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(tdistribution.LedgerState{}, store.ErrNotFound).Once()
	submitter := &mocks.MockSubmitter{}
	submitter.On("Submit", mock.Anything, target("addr-a")).Return("dry", nil).Once()

	d := distribution.NewDriver(
		cfg, profile, ledger, nil, submitter, true, zap.NewNop(), clock(initTime),
	)
	outcome, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, outcome.DryRun)
	require.NotNil(t, outcome.Run)
	assert.Equal(t, int64(800), outcome.Run.Payouts[0].Quantity)
	ledger.AssertNotCalled(t, "Save", mock.Anything)
}

func TestRun_LoadFailure(t *testing.T) {
	cfg := testConfig()
	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(tdistribution.LedgerState{}, errors.New("disk on fire")).Once()

	d := distribution.NewDriver(
		cfg, testProfile(t, cfg), ledger, nil, &mocks.MockSubmitter{}, false,
		zap.NewNop(), clock(day(1)),
	)
	_, err := d.Run(context.Background())
	require.Error(t, err)
	ledger.AssertNotCalled(t, "Save", mock.Anything)
}

type preparingSubmitter struct {
	*mocks.MockSubmitter
	err error
}

func (p preparingSubmitter) Prepare(
	ctx context.Context,
	instructions []tdistribution.TransferInstruction,
) error {
	return p.err
}

func TestRun_PrepareFailureAbortsEvenWhenRecordingPartial(t *testing.T) {
	cfg := testConfig()
	cfg.Recipients.Static = []string{"addr-a", "addr-b"}
	cfg.Submission.OnFailure = config.OnFailureRecordPartial
	profile := testProfile(t, cfg)

	ledger := &mocks.MockLedgerStore{}
	ledger.On("Load").Return(stateWith(5000), nil).Once()

	signErr := errors.New("signing key rejected")
	submitter := preparingSubmitter{MockSubmitter: &mocks.MockSubmitter{}, err: signErr}

	d := distribution.NewDriver(
		cfg, profile, ledger, nil, submitter, false, zap.NewNop(), clock(day(1)),
	)
	outcome, err := d.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.True(t, errors.Is(err, distribution.ErrSubmission))
	assert.True(t, errors.Is(err, signErr))

	ledger.AssertNotCalled(t, "Save", mock.Anything)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}
