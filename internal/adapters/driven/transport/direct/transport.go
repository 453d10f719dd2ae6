// Package direct implements the direct conversion protocol: the raw file is
// posted as a multipart upload and the response body is the converted file.
package direct

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
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

// Default configuration values.
const (
	DefaultTimeout = 10 * time.Minute

	// FormField is the multipart field carrying the source file.
	FormField = "file"
)

// Messages reported to the item on failure.
const (
	MessageEmptyEndpoint = "Local API URL is empty"
	MessageFailed        = "Local conversion failed"
)

// Config holds configuration for the direct transport.
type Config struct {
	// Client is the HTTP client to use (default: client with DefaultTimeout).
	Client *http.Client

	// Limiter paces requests. Nil disables pacing.
	Limiter *transport.Limiter
}

// Transport posts files to a direct conversion endpoint.
type Transport struct {
	client  *http.Client
	limiter *transport.Limiter
}

// New creates a direct transport.
func New(cfg Config) *Transport {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Transport{client: cfg.Client, limiter: cfg.Limiter}
}

// Mode returns domain.BackendDirect.
func (t *Transport) Mode() domain.BackendMode {
	return domain.BackendDirect
}

// Convert uploads file and returns the response body.
func (t *Transport) Convert(ctx context.Context, file domain.SourceFile, cfg domain.BackendConfig) ([]byte, error) {
	endpoint := strings.TrimSpace(cfg.DirectEndpoint)
	if endpoint == "" {
		return nil, &domain.ConfigError{Message: MessageEmptyEndpoint}
	}

	body, contentType, err := multipartBody(file)
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, &domain.NetworkError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, &domain.ConfigError{Message: fmt.Sprintf("invalid Local API URL: %v", err)}
	}
	req.Header.Set("Content-Type", contentType)

	logger.Debug("direct: POST %s (%s, %d bytes)", endpoint, file.Name, len(file.Data))

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &domain.RemoteError{
			StatusCode: resp.StatusCode,
			Message:    MessageFailed,
			RetryAfter: transport.RetryAfter(resp, time.Now()),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("reading response: %w", err)}
	}
	return data, nil
}

// multipartBody encodes file under FormField, keeping its name.
func multipartBody(file domain.SourceFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(FormField, file.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
