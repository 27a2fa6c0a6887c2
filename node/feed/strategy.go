package feed

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// EndpointStrategy runs a request against an ordered list of endpoints, one
// attempt each, and stops at the first success.
type EndpointStrategy struct {
	endpoints []string
	logger    *zap.Logger
}

func NewEndpointStrategy(endpoints []string, logger *zap.Logger) *EndpointStrategy {
	return &EndpointStrategy{
		endpoints: append([]string{}, endpoints...),
		logger:    logger.Named("endpoint_strategy"),
	}
}

func (s *EndpointStrategy) Endpoints() []string {
	return append([]string{}, s.endpoints...)
}

// Do calls fn with each endpoint in turn. The error of the final attempt is
// returned inside a *TransportError.
func (s *EndpointStrategy) Do(
	ctx context.Context,
	fn func(ctx context.Context, endpoint string) error,
) error {
	if len(s.endpoints) == 0 {
		return errors.Wrap(ErrTransport, "no endpoints configured")
	}

	var lastErr error
	for i, endpoint := range s.endpoints {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "do")
		}

		err := fn(ctx, endpoint)
		if err == nil {
			if i > 0 {
				endpointFailoversTotal.WithLabelValues(endpoint).Inc()
			}
			return nil
		}

		lastErr = err
		s.logger.Warn(
			"endpoint request failed",
			zap.String("endpoint", endpoint),
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
	}

	return &TransportError{
		Endpoint: s.endpoints[len(s.endpoints)-1],
		Attempts: len(s.endpoints),
		Err:      lastErr,
	}
}
