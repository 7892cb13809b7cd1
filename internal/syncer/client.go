package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/buildmart-as/inventory-api/internal/config"
	"github.com/buildmart-as/inventory-api/internal/domain"
	"go.uber.org/zap"
)

// Client replays queued actions against the remote ERP endpoint. It is
// deliberately dumb: one action per request, in order, and any failure
// stops the replay so ordering is never violated.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a remote sync client
func NewClient(cfg *config.RemoteSyncConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeoutDuration(),
		},
		logger: logger,
	}
}

// pushEnvelope is the wire format for a replayed action
type pushEnvelope struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

// PushAction sends one action to the remote endpoint. A non-2xx response
// is an error; the caller decides whether to retry later.
func (c *Client) PushAction(ctx context.Context, action domain.Action) error {
	body, err := json.Marshal(pushEnvelope{
		Type:      string(action.Type),
		Payload:   action.Payload,
		CreatedAt: action.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode action %s: %w", action.Type, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/actions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sync request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a little of the body for the log, it often carries the reason
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Remote rejected action",
			zap.String("action_type", string(action.Type)),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return fmt.Errorf("remote rejected action %s: status %d", action.Type, resp.StatusCode)
	}

	return nil
}

// Ping probes remote connectivity. It reports reachability only; a false
// result simply leaves actions in the queue for the next run.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
