package submit

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ardriveapp/astatine/types/distribution"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxResponseBytes = 1 << 20

// HTTPSubmitter signs transfer instructions and posts them as JSON to a
// submission endpoint, which replies with the id of the transfer.
type HTTPSubmitter struct {
	endpoint  string
	client    *http.Client
	signer    *Signer
	signLimit int
	logger    *zap.Logger

	mu       sync.Mutex
	prepared map[[32]byte]*SignedInstruction
}

var (
	_ distribution.Submitter = (*HTTPSubmitter)(nil)
	_ distribution.Preparer  = (*HTTPSubmitter)(nil)
)

func NewHTTPSubmitter(
	endpoint string,
	timeout time.Duration,
	signer *Signer,
	signLimit int,
	logger *zap.Logger,
) *HTTPSubmitter {
	if signLimit < 1 {
		signLimit = 1
	}
	return &HTTPSubmitter{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: timeout},
		signer:    signer,
		signLimit: signLimit,
		logger:    logger.Named("http_submitter"),
		prepared:  map[[32]byte]*SignedInstruction{},
	}
}

// Prepare signs every instruction of a run up front.
func (h *HTTPSubmitter) Prepare(
	ctx context.Context,
	instructions []distribution.TransferInstruction,
) error {
	signed := make([]*SignedInstruction, len(instructions))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(h.signLimit)
	for i := range instructions {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			s, err := h.signer.Sign(instructions[i])
			if err != nil {
				return err
			}
			signed[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return errors.Wrap(err, "prepare")
	}

	h.mu.Lock()
	for _, s := range signed {
		h.prepared[s.digest] = s
	}
	h.mu.Unlock()

	instructionsSignedTotal.Add(float64(len(signed)))
	h.logger.Debug("instructions signed", zap.Int("count", len(signed)))
	return nil
}

func (h *HTTPSubmitter) Submit(
	ctx context.Context,
	instruction distribution.TransferInstruction,
) (string, error) {
	start := time.Now()
	defer func() {
		submissionDuration.Observe(time.Since(start).Seconds())
	}()

	signed, err := h.signed(instruction)
	if err != nil {
		submissionsTotal.WithLabelValues("http", "error").Inc()
		return "", errors.Wrap(err, "submit")
	}

	id, err := h.post(ctx, signed)
	if err != nil {
		submissionsTotal.WithLabelValues("http", "error").Inc()
		return "", errors.Wrap(err, "submit")
	}

	submissionsTotal.WithLabelValues("http", "success").Inc()
	h.logger.Info(
		"transfer submitted",
		zap.String("id", id),
		zap.String("target", instruction.Target),
		zap.Int64("qty", instruction.Quantity),
	)
	return id, nil
}

func (h *HTTPSubmitter) signed(
	instruction distribution.TransferInstruction,
) (*SignedInstruction, error) {
	digest, err := Digest(instruction)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	s, ok := h.prepared[digest]
	if ok {
		delete(h.prepared, digest)
	}
	h.mu.Unlock()
	if ok {
		return s, nil
	}

	instructionsSignedTotal.Inc()
	return h.signer.Sign(instruction)
}

func (h *HTTPSubmitter) post(
	ctx context.Context,
	signed *SignedInstruction,
) (string, error) {
	body, err := json.Marshal(signed)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		h.endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", signed.IdempotencyKey())

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf(
			"unexpected status %d: %s",
			resp.StatusCode,
			bytes.TrimSpace(data),
		)
	}

	id := gjson.GetBytes(data, "id")
	if id.Type != gjson.String || id.String() == "" {
		return "", errors.Errorf(
			"response without id, digest %s",
			hex.EncodeToString(signed.digest[:]),
		)
	}

	return id.String(), nil
}
