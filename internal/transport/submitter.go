// Package transport carries assembled orders to the upstream registration
// endpoint. Retry policy lives here, at the transport boundary, so the core
// stays synchronous.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sethvargo/go-retry"

	"github.com/findlunch/ordercore/pkg/config"
	pkgerrors "github.com/findlunch/ordercore/pkg/errors"
	"github.com/findlunch/ordercore/pkg/logger"
)

// Submitter posts submission payloads to the FindLunch backend.
type Submitter struct {
	baseURL string
	httpc   *http.Client
	retries uint64
	backoff retry.Backoff
	logg    *logger.Logger
}

// NewSubmitter builds a submitter from the upstream config.
func NewSubmitter(cfg config.UpstreamConfig, logg *logger.Logger) (*Submitter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base url required")
	}
	return &Submitter{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		retries: cfg.RetryAttempts,
		backoff: retry.NewConstant(cfg.RetryBackoff),
		logg:    logg,
	}, nil
}

// Submit registers the reservation upstream. The payload is marshalled once;
// each bounded retry re-sends the same bytes.
func (s *Submitter) Submit(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode reservation payload")
	}

	url := s.baseURL + "/api/register_reservation"
	err = retry.Do(ctx, retry.WithMaxRetries(s.retries, s.backoff), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpc.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("registration responded %d", resp.StatusCode))
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return fmt.Errorf("registration responded %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "order submission failed", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "register reservation")
	}
	return nil
}
