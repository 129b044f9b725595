// Package messenger originates outbound text messages through the telephony
// provider's REST API.
package messenger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AIworks24/calendar-agent/internal/adapter/pii"
)

// Client implements domain.Messenger against a form-encoded message creation
// endpoint authenticated with account SID and auth token.
type Client struct {
	endpoint   string
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a messenger. endpoint is the full URL of the provider's
// message resource; from is the sending number.
func NewClient(endpoint, accountSID, authToken, from string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send posts one outbound message. A non-2xx status is an error; the caller
// decides whether that is worth more than a log line.
func (c *Client) Send(ctx context.Context, to, body string) error {
	form := url.Values{
		"To":   {to},
		"From": {c.from},
		"Body": {body},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("message provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	c.logger.Info("outbound message sent", "to", pii.MaskSender(to))
	return nil
}

// LogOnly is a domain.Messenger that logs instead of sending, used when no
// messaging provider is configured.
type LogOnly struct {
	logger *slog.Logger
}

// NewLogOnly creates a messenger that drops every message into the log.
func NewLogOnly(logger *slog.Logger) *LogOnly {
	return &LogOnly{logger: logger}
}

func (l *LogOnly) Send(ctx context.Context, to, body string) error {
	l.logger.Info("outbound messaging disabled, dropping message", "to", pii.MaskSender(to), "body", body)
	return nil
}
