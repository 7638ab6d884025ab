// Package dashboard implements the terminal results viewer: it polls the API,
// filters teams by breakout session and renders one card per team.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/oncovoice/internal/adapter/dto/result"
	"github.com/johnquangdev/oncovoice/internal/adapter/dto/team"
)

const maxResponseBytes = 8 << 20

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Info    string          `json:"info"`
}

// Client reads the results API
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		maxRetries: 2,
	}
}

// Results fetches every team's record
func (c *Client) Results(ctx context.Context) (*result.ResultsResponse, error) {
	var out result.ResultsResponse
	if err := c.get(ctx, "/v1/results", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Catalog fetches sessions and teams
func (c *Client) Catalog(ctx context.Context) (*team.CatalogResponse, error) {
	var out team.CatalogResponse
	if err := c.get(ctx, "/v1/teams", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// get retries network failures and 5xx answers with a short exponential backoff
func (c *Client) get(ctx context.Context, path string, v interface{}) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("GET %s: read body: %w", path, err)
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			err = fmt.Errorf("GET %s: status %d: invalid response: %w", path, resp.StatusCode, err)
			if resp.StatusCode >= http.StatusInternalServerError {
				return err
			}
			return backoff.Permanent(err)
		}

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, env.Message)
			if env.Info != "" {
				err = fmt.Errorf("%w (%s)", err, env.Info)
			}
			if resp.StatusCode >= http.StatusInternalServerError {
				return err
			}
			return backoff.Permanent(err)
		}

		if err := json.Unmarshal(env.Data, v); err != nil {
			return backoff.Permanent(fmt.Errorf("GET %s: decode data: %w", path, err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
}
