package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Pa-nts/topperbus/internal/logging"
)

// WebhookSender posts messages to Discord webhooks.
type WebhookSender struct {
	httpClient *http.Client
}

func NewWebhookSender() *WebhookSender {
	return &WebhookSender{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

// Send posts content to the given webhook URL. Discord answers 204 on
// success; anything outside 2xx is an upstream failure.
func (s *WebhookSender) Send(ctx context.Context, webhookURL, content string) error {
	body, err := json.Marshal(webhookPayload{Content: content})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "discord_webhook")),
		"http_response_body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// FormatSubmission renders a feedback submission as a webhook message. The
// message body is sanitized against markdown and mention injection; the
// email, when present, is included for follow-up.
func FormatSubmission(submissionType, message, email string) string {
	content := fmt.Sprintf("**New %s**\n%s", submissionType, SanitizeForWebhook(message))
	if email != "" {
		content += fmt.Sprintf("\nFrom: %s", SanitizeForWebhook(email))
	}
	return content
}
