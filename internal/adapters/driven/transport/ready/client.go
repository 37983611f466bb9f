package ready

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
	"github.com/uwfpm/readysync/internal/logger"
)

const (
	// DefaultTimeout is how long to wait for a response from the
	// reporting server. A slow bulk query past this is treated as a
	// fetch failure for that template, not a run-level fatal.
	DefaultTimeout = 60 * time.Second

	// DefaultRequestsPerSecond is the proactive throttle. The reporting
	// API publishes no rate-limit headers, so throttling is purely
	// client-side.
	DefaultRequestsPerSecond = 2

	// maxErrorBody bounds how much of an error response body is kept
	// for diagnostics.
	maxErrorBody = 512
)

// Ensure Client implements the interface.
var _ driven.RequestAPI = (*Client)(nil)

// Config holds client construction parameters.
type Config struct {
	// BaseURL is the reporting endpoint, up to and including the '?'.
	BaseURL string

	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration

	// RequestsPerSecond overrides DefaultRequestsPerSecond when positive.
	RequestsPerSecond float64
}

// Client is an HTTP client for the reporting API.
type Client struct {
	http    *http.Client
	baseURL string
	creds   domain.Credentials
	limiter *rate.Limiter
}

// NewClient builds a client, resolving credentials immediately so a
// broken credential source fails at startup, before any fetching.
func NewClient(cfg Config, provider driven.CredentialProvider) (*Client, error) {
	creds, err := provider.Credentials()
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "?") {
		baseURL += "?"
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		creds:   creds,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// RequestsByTemplate returns every request of one template created in
// the inclusive date range. The query parameter order (template,
// startDate, endDate) is a boundary contract the server depends on.
func (c *Client) RequestsByTemplate(
	ctx context.Context,
	template string,
	start, end time.Time,
) ([]domain.Request, error) {
	u := c.baseURL + encodeQuery(
		param{templateParam, template},
		param{startDateParam, domain.FormatDate(start)},
		param{endDateParam, domain.FormatDate(end)},
	)

	var records []domain.Request
	if err := c.get(ctx, u, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RequestByID returns the full record for one request identifier. The
// server answers single-identifier queries with a one-element list.
func (c *Client) RequestByID(ctx context.Context, id string) (*domain.Request, error) {
	u := c.baseURL + requestIDParam + "=" + url.QueryEscape(id)

	var records []domain.Request
	if err := c.get(ctx, u, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("request %s: %w", id, domain.ErrNotFound)
	}
	return &records[0], nil
}

// get performs one authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, rawURL string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Password)
	req.Header.Set("Accept", "application/json")

	logger.Debug("GET %s", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        rawURL,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return nil
}
