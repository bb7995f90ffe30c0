// Package plannerhttp implements the planner port over the agent service's
// HTTP API.
package plannerhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/port/planner"
	"github.com/stridehq/stride/internal/resilience"
)

// planPath is the agent endpoint for one conversational turn.
const planPath = "/v1/plan"

// Client talks to the external planning-agent service. All failures to reach
// the agent or obtain a well-formed reply surface as domain.ErrUnavailable so
// the boundary can answer 503 rather than 500.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

var _ planner.Runner = (*Client)(nil)

// NewClient creates a planner client from config.
func NewClient(cfg config.Planner) *Client {
	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Run performs one agent turn.
func (c *Client) Run(ctx context.Context, req planner.Request) (*planner.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal planner request: %w", err)
	}

	data, err := c.post(ctx, planPath, body)
	if err != nil {
		return nil, err
	}

	var resp planner.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, domain.Unavailablef("planner returned malformed response")
	}
	if resp.Action.Type == "" {
		resp.Action.Type = planner.ActionNone
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	var result []byte
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return domain.Unavailablef("planner unreachable: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return domain.Unavailablef("read planner response: %v", err)
		}
		if resp.StatusCode >= 400 {
			return domain.Unavailablef("planner returned status %d", resp.StatusCode)
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			if err == resilience.ErrCircuitOpen {
				return nil, domain.Unavailablef("planner circuit open")
			}
			return nil, err
		}
		return result, nil
	}
	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}
