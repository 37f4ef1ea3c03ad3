package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// WebhookConfig configures the webhook publisher.
type WebhookConfig struct {
	// URL receives event payloads as JSON POSTs.
	URL string

	// Timeout for individual requests (default: 10s).
	Timeout time.Duration

	// MaxRetries for failed deliveries (default: 3).
	MaxRetries int

	// RateLimit deliveries per second (default: 5).
	RateLimit float64

	// RateBurst maximum burst size (default: 2).
	RateBurst int

	// Transport allows injecting a custom transport (for tests).
	Transport http.RoundTripper
}

// WebhookPublisher POSTs events to a notification endpoint with rate
// limiting and exponential-backoff retry.
type WebhookPublisher struct {
	config  WebhookConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewWebhookPublisher creates a webhook publisher.
func NewWebhookPublisher(config WebhookConfig) (*WebhookPublisher, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RateLimit == 0 {
		config.RateLimit = 5.0
	}
	if config.RateBurst == 0 {
		config.RateBurst = 2
	}

	return &WebhookPublisher{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
	}, nil
}

func (p *WebhookPublisher) ID() string { return "webhook" }

// Publish delivers the event, retrying retryable failures with backoff.
func (p *WebhookPublisher) Publish(ctx context.Context, ev Event) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		err := p.deliverOnce(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err

		var derr *deliveryError
		if errors.As(err, &derr) && derr.permanent() {
			return fmt.Errorf("permanent delivery failure: %w", err)
		}
		if attempt >= p.config.MaxRetries {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * 100 * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// deliveryError is a webhook response with a non-2xx status.
type deliveryError struct {
	status int
}

func (e *deliveryError) Error() string {
	return fmt.Sprintf("webhook responded %d", e.status)
}

// permanent reports whether the status is a client error that a retry
// cannot fix. 408 and 429 stay retryable.
func (e *deliveryError) permanent() bool {
	if e.status == http.StatusRequestTimeout || e.status == http.StatusTooManyRequests {
		return false
	}
	return e.status >= 400 && e.status < 500
}

func (p *WebhookPublisher) deliverOnce(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &deliveryError{status: resp.StatusCode}
	}
	return nil
}
