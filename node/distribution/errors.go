package distribution

import "github.com/pkg/errors"

var (
	ErrSubmission        = errors.New("transfer submission failed")
	ErrPartialSubmission = errors.New("run recorded with unsent payouts")
)

// SubmissionError carries the cause of a failed submission. It matches
// ErrPartialSubmission when the run was recorded anyway and ErrSubmission
// otherwise.
type SubmissionError struct {
	Recorded bool
	Err      error
}

func (e *SubmissionError) sentinel() error {
	if e.Recorded {
		return ErrPartialSubmission
	}
	return ErrSubmission
}

func (e *SubmissionError) Error() string {
	return e.sentinel().Error() + ": " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func (e *SubmissionError) Is(target error) bool {
	return target == e.sentinel()
}

// Reasons reported for runs that are not eligible.
const (
	ReasonClockBehind      = "clock is before ledger initialisation"
	ReasonPeriodEnded      = "emission period ended"
	ReasonNothingPlanned   = "no expenditure planned for tick"
	ReasonBalanceExhausted = "remaining balance exhausted"
	ReasonAlreadyRan       = "run already recorded for tick"
)
