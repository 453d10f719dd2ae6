// Package jobapi implements the job API conversion protocol: the file is
// sent base64-encoded in a JSON envelope with bearer authorization and the
// converted file comes back base64-encoded in the JSON response.
package jobapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/pipe3d/internal/adapters/driven/transport"
	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/logger"
)

// Ensure Transport implements the interface.
var _ driven.ConversionTransport = (*Transport)(nil)

// DefaultTimeout bounds a synchronous job run.
const DefaultTimeout = 10 * time.Minute

// Messages reported to the item on failure.
const (
	MessageEmptyEndpoint = "RunPod URL is empty"
	MessageEmptyKey      = "RunPod API Key is empty"
	MessageFailed        = "RunPod conversion failed"
)

// Config holds configuration for the job API transport.
type Config struct {
	// Client is the HTTP client to use (default: client with DefaultTimeout).
	Client *http.Client

	// Limiter paces requests. Nil disables pacing.
	Limiter *transport.Limiter
}

// Transport submits conversion jobs to a job API endpoint.
type Transport struct {
	client  *http.Client
	limiter *transport.Limiter
}

// jobRequest is the request envelope.
type jobRequest struct {
	Input jobInput `json:"input"`
}

type jobInput struct {
	GLBBase64 string `json:"glb_base64"`
	Filename  string `json:"filename"`
}

// New creates a job API transport.
func New(cfg Config) *Transport {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Transport{client: cfg.Client, limiter: cfg.Limiter}
}

// Mode returns domain.BackendJobAPI.
func (t *Transport) Mode() domain.BackendMode {
	return domain.BackendJobAPI
}

// Convert submits one job and waits for its synchronous result.
func (t *Transport) Convert(ctx context.Context, file domain.SourceFile, cfg domain.BackendConfig) ([]byte, error) {
	endpoint := strings.TrimSpace(cfg.JobAPIEndpoint)
	if endpoint == "" {
		return nil, &domain.ConfigError{Message: MessageEmptyEndpoint}
	}
	key := strings.TrimSpace(cfg.JobAPIKey)
	if key == "" {
		return nil, &domain.ConfigError{Message: MessageEmptyKey}
	}

	body, err := json.Marshal(jobRequest{Input: jobInput{
		GLBBase64: base64.StdEncoding.EncodeToString(file.Data),
		Filename:  file.Name,
	}})
	if err != nil {
		return nil, fmt.Errorf("encoding job request: %w", err)
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, &domain.NetworkError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ConfigError{Message: fmt.Sprintf("invalid RunPod URL: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	logger.Debug("jobapi: POST %s (%s, %d bytes)", endpoint, file.Name, len(file.Data))

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("reading response: %w", err)}
	}
	parsed := ParseResponse(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.RemoteError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("RunPod request failed (%d): %s", resp.StatusCode, failureDetail(parsed, resp.StatusCode)),
			RetryAfter: transport.RetryAfter(resp, time.Now()),
		}
	}

	switch r := parsed.(type) {
	case Completed:
		return r.Data, nil
	case Failed:
		msg := r.Error
		if msg == "" {
			msg = MessageFailed
		}
		return nil, &domain.RemoteError{StatusCode: resp.StatusCode, Message: msg}
	default:
		return nil, &domain.RemoteError{StatusCode: resp.StatusCode, Message: MessageFailed}
	}
}

// failureDetail picks the error field, then message, then the raw body,
// then the HTTP status.
func failureDetail(r RemoteResponse, status int) string {
	switch v := r.(type) {
	case Failed:
		if v.Error != "" {
			return v.Error
		}
		if v.Message != "" {
			return v.Message
		}
	case Malformed:
		if v.Raw != "" {
			return v.Raw
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
