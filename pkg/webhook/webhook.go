// Package webhook posts run notifications to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ccollicutt/errlink/pkg/config"
	"github.com/ccollicutt/errlink/pkg/notify"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// Payload is the JSON body posted to a webhook.
type Payload struct {
	notify.Notification
	SentAt time.Time `json:"sent_at"`
}

// Client sends notifications to webhook endpoints.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new webhook client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts a payload to a webhook endpoint.
func (c *Client) Send(ctx context.Context, payload Payload, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}

	body, err := json.Marshal(payload)
	if err != nil {
		resp.Error = fmt.Errorf("failed to marshal payload: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(body))
	if err != nil {
		resp.Error = fmt.Errorf("failed to create request: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "errlink-webhook")
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		resp.Error = fmt.Errorf("request failed: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1024*1024)) // Limit to 1MB
	if err != nil {
		resp.Error = fmt.Errorf("failed to read response: %w", err)
		resp.Duration = time.Since(start)
		return resp
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(respBody)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}

// Notifier delivers notifications to configured webhooks according to their
// triggers.
type Notifier struct {
	client   *Client
	webhooks []config.WebhookConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewNotifier creates a Notifier for the given webhooks. A nil logger
// discards delivery logs.
func NewNotifier(webhooks []config.WebhookConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{
		client:   NewClient(),
		webhooks: webhooks,
		logger:   logger,
		now:      time.Now,
	}
}

// Notify sends n to every webhook whose trigger matches. Error severity
// counts as a failure. All webhooks are attempted; their errors are joined.
func (n *Notifier) Notify(ctx context.Context, note notify.Notification) error {
	failure := note.Severity == notify.SeverityError
	payload := Payload{Notification: note, SentAt: n.now()}

	var errs []error
	for _, wh := range n.webhooks {
		if !ShouldFire(wh.Trigger, failure) {
			continue
		}

		resp := n.client.Send(ctx, payload, SendOptions{
			URL:     wh.URL,
			Token:   wh.BearerToken(),
			Timeout: wh.Timeout,
		})

		name := wh.DisplayName()
		if resp.Success() {
			n.logger.Info("webhook sent", "webhook", name, "status", resp.StatusCode, "duration", resp.Duration)
			continue
		}
		n.logger.Warn("webhook failed", "webhook", name, "error", resp.Error)
		errs = append(errs, fmt.Errorf("webhook %s: %w", name, resp.Error))
	}
	return errors.Join(errs...)
}

// ShouldFire determines if a webhook should fire for a run outcome.
func ShouldFire(trigger config.WebhookTrigger, failure bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return failure
	}
}
