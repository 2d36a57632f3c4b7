package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avandyck/outliner/internal/outline"
)

// WebhookStore delivers finished documents to an HTTP endpoint.
type WebhookStore struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewWebhookStore(url, apiKey string) *WebhookStore {
	return &WebhookStore{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// payload is the webhook request body.
type payload struct {
	Name     string            `json:"name"`
	Document *outline.Document `json:"document"`
}

func (s *WebhookStore) Save(ctx context.Context, name string, doc *outline.Document) error {
	body, err := json.Marshal(payload{Name: name, Document: doc})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &RetryableError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook %s: status %d: %s", name, resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases any resources.
func (s *WebhookStore) Close() {
	s.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient delivery failure.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("retryable error: %s", truncate(e.Message, 200))
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
