package distribution

import (
	"context"

	tdistribution "github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// prepareError marks failures before the first transfer left the process.
type prepareError struct {
	err error
}

func (e *prepareError) Error() string {
	return "prepare transfers: " + e.err.Error()
}

func (e *prepareError) Unwrap() error {
	return e.err
}

// submit hands every submittable payout to the submitter, in order, and
// stops at the first failure. Payouts are updated in place.
func (d *Driver) submit(
	ctx context.Context,
	outcome *Outcome,
	payouts []tdistribution.Payout,
) error {
	completion := d.profile.Completion(outcome.ElapsedSeconds)

	indexes := []int{}
	instructions := []tdistribution.TransferInstruction{}
	for i, payout := range payouts {
		if !payout.Submittable() {
			continue
		}
		instruction, err := BuildInstruction(
			d.cfg.Token,
			d.profile.Kind,
			completion,
			payout,
		)
		if err != nil {
			return &prepareError{err: err}
		}
		indexes = append(indexes, i)
		instructions = append(instructions, instruction)
	}

	if preparer, ok := d.submitter.(tdistribution.Preparer); ok &&
		len(instructions) > 0 {
		if err := preparer.Prepare(ctx, instructions); err != nil {
			return &prepareError{err: err}
		}
	}

	for n, instruction := range instructions {
		i := indexes[n]
		id, err := d.submitter.Submit(ctx, instruction)
		if err != nil {
			d.logger.Error(
				"transfer failed",
				zap.String("target", instruction.Target),
				zap.Int64("qty", instruction.Quantity),
				zap.Int("sent", n),
				zap.Int("pending", len(instructions)-n),
				zap.Error(err),
			)
			return errors.Wrapf(err, "transfer to %s", instruction.Target)
		}

		payouts[i].SubmissionID = id
		payouts[i].Sent = true
		d.logger.Debug(
			"transfer sent",
			zap.String("id", id),
			zap.String("target", instruction.Target),
			zap.Int64("qty", instruction.Quantity),
		)
	}

	return nil
}
