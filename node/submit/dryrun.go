package submit

import (
	"context"

	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DryRunSubmitter logs transfers instead of sending them and hands out random
// identifiers.
type DryRunSubmitter struct {
	logger *zap.Logger
}

var _ distribution.Submitter = (*DryRunSubmitter)(nil)

func NewDryRunSubmitter(logger *zap.Logger) *DryRunSubmitter {
	return &DryRunSubmitter{logger: logger.Named("dry_run_submitter")}
}

func (d *DryRunSubmitter) Submit(
	ctx context.Context,
	instruction distribution.TransferInstruction,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	input, _ := instruction.Tag("Input")
	d.logger.Info(
		"dry run transfer",
		zap.String("id", id),
		zap.String("target", instruction.Target),
		zap.Int64("qty", instruction.Quantity),
		zap.String("input", input),
	)

	submissionsTotal.WithLabelValues("dry-run", "success").Inc()
	return id, nil
}
