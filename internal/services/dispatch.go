// Package services – outbound webhook dispatch.
package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultDispatchTimeout bounds a delivery attempt when no timeout is
// configured.
const DefaultDispatchTimeout = 5 * time.Second

// DispatchResult carries the remote endpoint's reply for a successful
// delivery.
type DispatchResult struct {
	StatusCode int
	Body       string
}

// Dispatcher performs the single outbound POST of a webhook envelope.
// There is no automatic retry: a non-2xx response or transport failure is
// surfaced immediately and the pipeline aborts. At most one delivery
// attempt happens per accepted request.
type Dispatcher struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewDispatcher builds a dispatcher with the given per-attempt timeout.
func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	return &Dispatcher{
		Client:  &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

// Send posts the serialized envelope to url with the tenant-configured
// headers. Content-Type is always application/json; tenant headers cannot
// override it.
func (d *Dispatcher) Send(ctx context.Context, url string, payload []byte, headers map[string]string) (*DispatchResult, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &DispatchError{Message: err.Error()}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &DispatchError{Message: err.Error()}
	}
	defer resp.Body.Close()

	// Read a bounded slice of the reply; remote bodies are informational only.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DispatchError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &DispatchResult{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
