package launchpad

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrRequestFailed marks a non-2xx response from the launchpad API. The
// dispatcher falls back to a canned failure reply when it sees this.
var ErrRequestFailed = errors.New("launchpad request failed")

// Client calls the launchpad's create-for-user endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

type createTokenRequest struct {
	IsTwitter     bool   `json:"isTwitter"`
	TwitterHandle string `json:"twitterHandle"`
	Input         string `json:"input"`
}

// CreateBetRequest mirrors the bets/create-for-user payload. Amounts are
// fixed placeholders in the agent flow, not user-configurable.
type CreateBetRequest struct {
	TwitterHandle     string `json:"twitterHandle"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	EndDate           int64  `json:"endDate"`
	Amount            string `json:"amount"`
	InitialPoolAmount string `json:"initialPoolAmount"`
	ImageURL          string `json:"imageURL"`
}

type createResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// CreateToken asks the launchpad to launch a token for the given handle
// from the extracted concept text. Returns the redirect URL on success.
func (c *Client) CreateToken(ctx context.Context, handle, input string) (string, error) {
	return c.post(ctx, "/api/memecoin/create-for-user", createTokenRequest{
		IsTwitter:     true,
		TwitterHandle: handle,
		Input:         input,
	})
}

// CreateBet creates a bet for the given handle and returns the redirect URL.
func (c *Client) CreateBet(ctx context.Context, req CreateBetRequest) (string, error) {
	return c.post(ctx, "/api/bets/create-for-user", req)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Launchpad returned non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw))
		return "", fmt.Errorf("%w: %s returned status %d", ErrRequestFailed, path, resp.StatusCode)
	}

	var out createResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return out.RedirectURL, nil
}
