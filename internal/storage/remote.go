package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/readmedraft/readmed/internal/document"
)

const (
	draftKey    = "readme/draft"
	settingsKey = "readme/settings"
)

// RemoteBackend persists through an HTTP key-value store. Writes are retried
// with backoff when the failure looks transient.
type RemoteBackend struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRemoteBackend(baseURL, apiKey string) *RemoteBackend {
	return &RemoteBackend{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (b *RemoteBackend) SaveDraft(ctx context.Context, draft document.Draft) error {
	return b.putRetry(ctx, draftKey, draft)
}

func (b *RemoteBackend) LoadDraft(ctx context.Context) (*document.Draft, error) {
	var draft document.Draft
	ok, err := b.get(ctx, draftKey, &draft)
	if err != nil || !ok {
		return nil, err
	}
	return &draft, nil
}

func (b *RemoteBackend) ClearDraft(ctx context.Context) error {
	return b.delete(ctx, draftKey)
}

func (b *RemoteBackend) SaveSettings(ctx context.Context, s Settings) error {
	return b.putRetry(ctx, settingsKey, s)
}

func (b *RemoteBackend) LoadSettings(ctx context.Context) (Settings, error) {
	var s Settings
	ok, err := b.get(ctx, settingsKey, &s)
	if err != nil || !ok {
		return nil, err
	}
	return s, nil
}

func (b *RemoteBackend) ClearSettings(ctx context.Context) error {
	return b.delete(ctx, settingsKey)
}

// Close releases any resources (currently a no-op).
func (b *RemoteBackend) Close() {
	b.httpClient.CloseIdleConnections()
}

func (b *RemoteBackend) putRetry(ctx context.Context, key string, v any) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = b.put(ctx, key, v)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (b *RemoteBackend) put(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.baseURL+"/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("put %s: %w", key, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	putErr := fmt.Errorf("put %s: status %d: %s", key, resp.StatusCode, string(respBody))
	if resp.StatusCode >= 500 {
		return &RetryableError{Err: putErr}
	}
	return putErr
}

func (b *RemoteBackend) get(ctx context.Context, key string, v any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/kv/"+key, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return false, fmt.Errorf("get %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (b *RemoteBackend) delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, b.baseURL+"/kv/"+key, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}
	return nil
}
