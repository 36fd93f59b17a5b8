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

// EmailRecipient is a single addressee of an outbound email.
type EmailRecipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EmailMessage is a plain text email to one or more recipients.
type EmailMessage struct {
	Subject    string
	Body       string
	Recipients []EmailRecipient
}

// EmailSender delivers an email message.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// MailerSendConfig carries sender identity and API access for MailerSend.
type MailerSendConfig struct {
	APIKey   string
	BaseURL  string
	FromName string
	From     string
	ReplyTo  string
}

// MailerSendClient delivers email through the MailerSend HTTP API.
type MailerSendClient struct {
	cfg        MailerSendConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure MailerSendClient implements the EmailSender interface
var _ EmailSender = (*MailerSendClient)(nil)

// NewMailerSendClient creates a MailerSend email client.
// If httpClient is nil, a client with a 15s timeout is used.
// If logger is nil, a default logger is used.
func NewMailerSendClient(cfg MailerSendConfig, httpClient *http.Client, logger *slog.Logger) *MailerSendClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MailerSendClient{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.With("component", "mailersend_client"),
	}
}

// mailerSendParty is the MailerSend wire shape for a sender or recipient.
type mailerSendParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// mailerSendRequest is the MailerSend /v1/email request body.
type mailerSendRequest struct {
	From    mailerSendParty   `json:"from"`
	ReplyTo mailerSendParty   `json:"reply_to"`
	To      []mailerSendParty `json:"to"`
	Subject string            `json:"subject"`
	Text    string            `json:"text"`
}

// Send posts the message to the MailerSend email endpoint.
func (c *MailerSendClient) Send(ctx context.Context, msg EmailMessage) error {
	payload := mailerSendRequest{
		From:    mailerSendParty{Name: c.cfg.FromName, Email: c.cfg.From},
		ReplyTo: mailerSendParty{Name: c.cfg.FromName, Email: c.cfg.ReplyTo},
		Subject: msg.Subject,
		Text:    msg.Body,
	}
	for _, r := range msg.Recipients {
		payload.To = append(payload.To, mailerSendParty{Name: r.Name, Email: r.Email})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.cfg.BaseURL+"/v1/email",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close email response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}

	c.logger.Info("email sent",
		"subject", msg.Subject,
		"recipient_count", len(msg.Recipients))
	return nil
}
