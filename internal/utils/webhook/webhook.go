package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/dwarvesf/payment-forwarder/internal/utils/config"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

type INotifier interface {
	// Notify delivers one event for a payment's terminal outcome. Called
	// exactly once per outcome; delivery retries are the receiver's concern.
	Notify(ctx context.Context, paymentCode, event string, payload any) error
}

type event struct {
	PaymentCode string `json:"payment_code"`
	Event       string `json:"event"`
	Payload     any    `json:"payload"`
	Timestamp   int64  `json:"timestamp"`
}

// Client is a simple HTTP client for making webhook calls
type Client struct {
	url        string
	secret     string
	httpClient *http.Client
	logger     *logger.Logger
}

// New creates a new webhook client with timeout
func New(cfg *config.AppConfig, logger *logger.Logger) INotifier {
	return &Client{
		url:    cfg.Webhook.URL,
		secret: cfg.Webhook.Secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) Notify(ctx context.Context, paymentCode, eventName string, payload any) error {
	if c.url == "" {
		return nil // Skip if webhook URL is not configured
	}

	body, err := json.Marshal(event{
		PaymentCode: paymentCode,
		Event:       eventName,
		Payload:     payload,
		Timestamp:   time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to create webhook request", map[string]string{
			"url":   c.url,
			"error": err.Error(),
		})
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Payfwd-Signature", c.sign(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to call webhook", map[string]string{
			"url":   c.url,
			"event": eventName,
			"error": err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("Webhook rejected", map[string]string{
			"url":          c.url,
			"event":        eventName,
			"payment_code": paymentCode,
			"status_code":  resp.Status,
		})
		return errors.Errorf("webhook returned %s", resp.Status)
	}

	c.logger.Info("Webhook delivered", map[string]string{
		"url":          c.url,
		"event":        eventName,
		"payment_code": paymentCode,
		"status_code":  resp.Status,
	})

	return nil
}

func (c *Client) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
