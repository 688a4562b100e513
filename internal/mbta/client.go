package mbta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"parkstreet/internal/logging"
)

// ErrUnexpectedStatus is returned when the API answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Client is an HTTP client for the MBTA v3 API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates an MBTA API client. An empty apiKey sends unauthenticated
// requests, which the API allows at a lower rate limit.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Predictions fetches up to limit predictions for a station, sorted by
// departure time, with their trips and routes included.
func (c *Client) Predictions(ctx context.Context, stationID string, limit int) (*Response, error) {
	q := url.Values{}
	q.Set("page[offset]", "0")
	q.Set("page[limit]", strconv.Itoa(limit))
	q.Set("sort", "departure_time")
	q.Set("include", "trip,route")
	q.Set("filter[stop]", stationID)
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u := c.baseURL + "/predictions?" + q.Encode()

	start := time.Now()
	resp, err := c.doGet(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("predictions for %s: %w", stationID, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "predictions_response_body")

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}

	logging.LogOperation(c.logger, "predictions fetched",
		slog.String("station", stationID),
		slog.Int("predictions", len(result.Data)),
		slog.Int("included", len(result.Included)),
		slog.Duration("duration", time.Since(start)))
	return &result, nil
}

func (c *Client) doGet(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error prints the full URL, api_key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("%s %s: %w", uerr.Op, req.URL.Path, uerr.Err)
		}
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, req.URL.Path)
	}
	return resp, nil
}
