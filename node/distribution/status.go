package distribution

import (
	"time"

	"github.com/ardriveapp/astatine/node/reward"
	"github.com/ardriveapp/astatine/node/store"
	tdistribution "github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Status struct {
	Initialized  bool
	State        tdistribution.LedgerState
	ElapsedTicks int64
	// Percentage of the emission period that has elapsed.
	Completion decimal.Decimal
	// Sum of the expenditure of every recorded run.
	Expended    int64
	PeriodEnded bool
}

// ReadStatus summarises the ledger without modifying it. An absent ledger is
// reported as not initialised.
func ReadStatus(
	ledger tdistribution.LedgerStore,
	profile *reward.Profile,
	bucketTicks int64,
	now time.Time,
) (*Status, error) {
	state, err := ledger.Load()
	if errors.Is(err, store.ErrNotFound) {
		return &Status{
			State: tdistribution.LedgerState{
				RemainingBalance: profile.TotalBudget,
				Runs:             []tdistribution.RunRecord{},
			},
			Completion: decimal.Zero,
		}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read status")
	}

	ticks := profile.ElapsedTicks(state.InitTimestamp, now.UnixMilli(), bucketTicks)
	status := &Status{
		Initialized:  true,
		State:        state,
		ElapsedTicks: ticks,
		Completion:   profile.Completion(ticks * profile.TickInterval),
		PeriodEnded:  ticks > profile.Ticks(),
	}
	for _, r := range state.Runs {
		status.Expended += r.AmountExpended
	}

	return status, nil
}
