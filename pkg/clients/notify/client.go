package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client exposes the alert delivery operation used by the application.
type Client interface {
	SendAlert(ctx context.Context, req SendAlertRequest) error
}

// WebhookClient is a resty-backed implementation of Client posting alerts to
// a configurable webhook (Slack-compatible payload: a single "text" field).
type WebhookClient struct {
	httpClient *resty.Client
	webhookURL string
}

// NewWebhookClient builds an alert client for the provided webhook URL.
func NewWebhookClient(webhookURL string) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &WebhookClient{
		httpClient: restyClient,
		webhookURL: webhookURL,
	}
}

// SendAlertRequest represents one alert message.
type SendAlertRequest struct {
	Title string
	Body  string
}

func (c *WebhookClient) SendAlert(ctx context.Context, req SendAlertRequest) error {
	text := req.Body
	if req.Title != "" {
		text = fmt.Sprintf("*%s*\n%s", req.Title, req.Body)
	}

	payload := map[string]any{"text": text}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.webhookURL)
	if err != nil {
		return fmt.Errorf("send alert webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("alert webhook error: code=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
