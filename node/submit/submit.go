package submit

import (
	"github.com/ardriveapp/astatine/config"
	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewSubmitter builds the submitter selected by the configuration. dryRun
// forces the dry run submitter regardless of the configured mode.
func NewSubmitter(
	cfg config.SubmissionConfig,
	dryRun bool,
	logger *zap.Logger,
) (distribution.Submitter, error) {
	if dryRun || cfg.Mode == config.SubmissionDryRun {
		return NewDryRunSubmitter(logger), nil
	}

	signer, err := SignerFromEnv(cfg.KeyEnv)
	if err != nil {
		return nil, errors.Wrap(err, "new submitter")
	}

	logger.Info(
		"http submission enabled",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("owner", signer.Owner()),
	)
	return NewHTTPSubmitter(
		cfg.Endpoint,
		cfg.Timeout,
		signer,
		cfg.SignLimit,
		logger,
	), nil
}
