package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single HTTP round trip when none is configured
const DefaultTimeout = 30 * time.Second

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Code, string(e.Body))
}

// HTTPConfig configures an HTTP transport
type HTTPConfig struct {
	Timeout time.Duration
	// Client overrides the default client; Timeout is ignored when set
	Client *http.Client
	Logger zerolog.Logger
}

// HTTP posts batches to the endpoint over HTTP(S)
type HTTP struct {
	client *http.Client
	logger zerolog.Logger
}

// NewHTTP creates an HTTP transport
func NewHTTP(cfg HTTPConfig) *HTTP {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: timeout,
		}
	}
	return &HTTP{
		client: client,
		logger: cfg.Logger.With().Str("component", "http-transport").Logger(),
	}
}

// Call POSTs body to endpoint as application/json
func (h *HTTP) Call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		h.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Error().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("unexpected HTTP status")
		return nil, &StatusError{Code: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}

// Close releases idle connections
func (h *HTTP) Close() {
	h.client.CloseIdleConnections()
}
