// Package notify provides outbound notification channels: Slack webhook
// messages and overdue-reminder emails. Both are fire-and-forget from the
// caller's perspective; failures are logged, not propagated.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// SlackSender sends a plain text message to a chat channel.
type SlackSender interface {
	Send(ctx context.Context, text string) error
}

// SlackWebhookClient posts messages to a Slack incoming webhook.
type SlackWebhookClient struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure SlackWebhookClient implements the SlackSender interface
var _ SlackSender = (*SlackWebhookClient)(nil)

// NewSlackWebhookClient creates a Slack webhook client.
// If httpClient is nil, a client with a 10s timeout is used.
// If logger is nil, a default logger is used.
func NewSlackWebhookClient(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackWebhookClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SlackWebhookClient{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger.With("component", "slack_webhook"),
	}
}

// Send posts {"text": ...} to the webhook URL.
func (c *SlackWebhookClient) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to encode slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("sending slack message", "text", text)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close slack response body", "error", closeErr)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	c.logger.Info("slack message sent", "text", text)
	return nil
}
