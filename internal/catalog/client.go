package catalog

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

// Client fetches restaurant menus from the upstream catalog API.
type Client struct {
	baseURL string
	httpc   *http.Client
	retries uint64
	backoff retry.Backoff
	logg    *logger.Logger
}

// NewClient builds a catalog client from the upstream config.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base url required")
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		retries: cfg.RetryAttempts,
		backoff: retry.NewConstant(cfg.RetryBackoff),
		logg:    logg,
	}, nil
}

// RestaurantOffers returns the current offer list for one restaurant.
// Failures after the bounded retries surface as a recoverable transport error.
func (c *Client) RestaurantOffers(ctx context.Context, restaurantID int64) ([]Item, error) {
	url := fmt.Sprintf("%s/api/restaurants/%d/offers", c.baseURL, restaurantID)

	var items []Item
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
			return retry.RetryableError(fmt.Errorf("catalog responded %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("catalog responded %d", resp.StatusCode)
		}

		items = items[:0]
		if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
			return fmt.Errorf("decode offers: %w", err)
		}
		return nil
	})
	if err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "catalog fetch failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "fetch restaurant offers")
	}
	return items, nil
}
