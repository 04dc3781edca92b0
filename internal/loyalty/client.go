package loyalty

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sethvargo/go-retry"

	"github.com/findlunch/ordercore/pkg/config"
	pkgerrors "github.com/findlunch/ordercore/pkg/errors"
	"github.com/findlunch/ordercore/pkg/logger"
)

// BalanceClient fetches a user's points balance per restaurant. A failing
// fetch is reported but never blocks cash-based checkout.
type BalanceClient struct {
	baseURL string
	httpc   *http.Client
	retries uint64
	backoff retry.Backoff
	logg    *logger.Logger
}

// NewBalanceClient builds a balance client from the upstream config.
func NewBalanceClient(cfg config.UpstreamConfig, logg *logger.Logger) (*BalanceClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base url required")
	}
	return &BalanceClient{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		retries: cfg.RetryAttempts,
		backoff: retry.NewConstant(cfg.RetryBackoff),
		logg:    logg,
	}, nil
}

// Balance returns the authenticated user's points at the restaurant. Users
// without any history there have zero points, not an error.
func (c *BalanceClient) Balance(ctx context.Context, restaurantID int64) (int, error) {
	url := fmt.Sprintf("%s/api/get_points_restaurant/%d", c.baseURL, restaurantID)

	var entries []struct {
		Points int `json:"points"`
	}
	err := retry.Do(ctx, retry.WithMaxRetries(c.retries, c.backoff), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("loyalty responded %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("loyalty responded %d", resp.StatusCode)
		}

		entries = entries[:0]
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			return fmt.Errorf("decode points: %w", err)
		}
		return nil
	})
	if err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "loyalty balance fetch failed", err)
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "fetch points balance")
	}

	if len(entries) == 0 {
		return 0, nil
	}
	return entries[0].Points, nil
}
