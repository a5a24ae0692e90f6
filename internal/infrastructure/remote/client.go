package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/catalogcompare/backend/internal/domain"
	"github.com/catalogcompare/backend/internal/infrastructure/catalogdata"
)

const (
	maxAttempts  = 3
	maxBodyBytes = 32 << 20
)

// Client fetches the catalog document from an HTTP endpoint
type Client struct {
	httpClient  *http.Client
	catalogURL  string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a catalog client for catalogURL.
// Each attempt is bounded by timeout; a nil logger disables logging.
func NewClient(catalogURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(catalogURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog url %q", catalogURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// the upstream is read on every API request, keep it from being hammered
	limiter := rate.NewLimiter(rate.Limit(20), 40)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		catalogURL:  catalogURL,
		rateLimiter: limiter,
		backoff:     exponentialBackoff,
		logger:      logger.Named("remote"),
	}, nil
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.catalogURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "CatalogCompare/1.0")
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return resp, nil
}

// LoadAll downloads and decodes the catalog, retrying transient failures.
func (c *Client) LoadAll(ctx context.Context) ([]domain.Product, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("catalog request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrCatalogUnavailable, err)
			continue
		}

		// retry on 5xx and 429, anything else is permanent
		if resp.StatusCode != http.StatusOK {
			c.logger.Warn("catalog endpoint returned error status",
				zap.Int("attempt", attempt),
				zap.Int("status", resp.StatusCode))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				continue
			}
			return nil, lastErr
		}

		format := catalogdata.FormatFromContentType(resp.Header.Get("Content-Type"), resp.Request.URL.Path)
		products, err := catalogdata.Decode(body, format)
		if err != nil {
			return nil, fmt.Errorf("catalog from %s: %w", c.catalogURL, err)
		}

		c.logger.Debug("catalog fetched",
			zap.Int("attempt", attempt),
			zap.Int("products", len(products)))
		return products, nil
	}

	c.logger.Error("all catalog fetch attempts failed", zap.Error(lastErr))
	return nil, lastErr
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
