package batchtool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client wraps http.Client for talking to the evaluation service.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client with the given base URL and request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// healthPayload mirrors the service's healthz response.
type healthPayload struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// CheckHealth verifies the service is up with its classifier loaded.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	var health healthPayload
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if !health.ModelLoaded {
		return fmt.Errorf("service at %s reports model not loaded (status %q)", c.baseURL, health.Status)
	}
	return nil
}

// Predict submits one observation and returns the evaluation result.
// Each request carries a unique X-Request-ID for log correlation.
func (c *Client) Predict(ctx context.Context, obs observationPayload) (*resultPayload, error) {
	body, err := json.Marshal(obs)
	if err != nil {
		return nil, fmt.Errorf("marshal observation: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read predict response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predict returned %d: %s", resp.StatusCode, string(data))
	}

	var result resultPayload
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	return &result, nil
}
