// Package notify delivers reminder notifications outside the terminal.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/linkboard/internal/reminder"
)

// Prompter asks the user whether notifications may be sent.
type Prompter func(ctx context.Context) (bool, error)

type WebhookConfig struct {
	URL              string
	Token            string
	Permission       reminder.Permission
	MaxRetryAttempts uint
	RetryDelay       time.Duration
}

// Webhook is a reminder.Platform that posts notifications to an HTTP endpoint.
type Webhook struct {
	httpClient       *resty.Client
	url              string
	prompter         Prompter
	maxRetryAttempts uint
	retryDelay       time.Duration

	mu         sync.Mutex
	permission reminder.Permission
}

type webhookPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// NewWebhook creates a Webhook. Without a URL the platform reports denied so every reminder uses the fallback.
func NewWebhook(config WebhookConfig, prompter Prompter) *Webhook {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if config.Token != "" {
		client.SetHeader("Authorization", "Bearer "+config.Token)
	}

	permission := config.Permission
	switch {
	case config.URL == "":
		permission = reminder.PermissionDenied
	case permission == "":
		permission = reminder.PermissionDefault
	}
	retryDelay := config.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 100 * time.Millisecond
	}

	return &Webhook{
		httpClient:       client,
		url:              config.URL,
		prompter:         prompter,
		maxRetryAttempts: config.MaxRetryAttempts,
		retryDelay:       retryDelay,
		permission:       permission,
	}
}

func (w *Webhook) Close() error {
	return w.httpClient.Close()
}

func (w *Webhook) Permission() reminder.Permission {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.permission
}

// RequestPermission prompts once while the permission is undecided and remembers the answer.
func (w *Webhook) RequestPermission(ctx context.Context) (reminder.Permission, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.permission != reminder.PermissionDefault || w.prompter == nil {
		return w.permission, nil
	}
	allowed, err := w.prompter(ctx)
	if err != nil {
		return w.permission, fmt.Errorf("prompter > %w", err)
	}
	if allowed {
		w.permission = reminder.PermissionGranted
	} else {
		w.permission = reminder.PermissionDenied
	}
	return w.permission, nil
}

// Show posts the notification, retrying server errors and rate limiting.
func (w *Webhook) Show(ctx context.Context, notification reminder.Notification) error {
	payload := webhookPayload{
		Title: notification.Title,
		Body:  notification.Body,
		Tag:   notification.Tag,
	}
	return retry.Do(
		func() error {
			err := w.post(ctx, payload)
			if err != nil && !isRetryable(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(w.maxRetryAttempts+1),
		retry.Delay(w.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("retrying webhook notification",
				"attempt", n+1,
				"tag", payload.Tag,
				"error", err)
		}),
	)
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.code, e.body)
}

func isRetryable(err error) bool {
	statusErr, ok := err.(*statusError)
	if !ok {
		return true
	}
	return statusErr.code >= http.StatusInternalServerError || statusErr.code == http.StatusTooManyRequests
}

func (w *Webhook) post(ctx context.Context, payload webhookPayload) error {
	response, err := w.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return &statusError{code: response.StatusCode(), body: response.String()}
	}
	return nil
}

var _ reminder.Platform = (*Webhook)(nil)
