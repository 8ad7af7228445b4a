// Package logsink delivers structured log events to a remote collection
// endpoint with a fixed wire contract. Delivery is fire-and-forget: failures
// are swallowed and never surface to the request being handled.
package logsink

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Log levels accepted by the remote endpoint.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Package labels accepted by the remote endpoint for backend events.
const (
	PackageHandler    = "handler"
	PackageRepository = "repository"
	PackageService    = "service"
)

// Sink records significant application events.
type Sink interface {
	// Log delivers one event. It never blocks the caller on network I/O
	// and never fails.
	Log(ctx context.Context, level, pkg, message string)
}

// event is the wire payload of the remote endpoint.
type event struct {
	Stack   string `json:"stack"`
	Level   string `json:"level"`
	Package string `json:"package"`
	Message string `json:"message"`
}

// Client delivers events over HTTP with a bearer token.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *slog.Logger
}

// New creates a Sink against the given endpoint. When the endpoint or token
// is empty the sink is disabled and a no-op implementation is returned.
func New(endpoint, token string, timeout time.Duration, logger *slog.Logger) Sink {
	if endpoint == "" || token == "" {
		return Nop{}
	}

	return &Client{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Log sends the event in the background. The delivery context is detached
// from the request context, so a finished request does not cancel delivery.
func (c *Client) Log(ctx context.Context, level, pkg, message string) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		body, err := json.Marshal(event{
			Stack:   "backend",
			Level:   level,
			Package: pkg,
			Message: message,
		})
		if err != nil {
			c.logger.DebugContext(ctx, "log sink: failed to marshal event", slog.Any("err", err))
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			c.logger.DebugContext(ctx, "log sink: failed to build request", slog.Any("err", err))
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.client.Do(req)
		if err != nil {
			c.logger.DebugContext(ctx, "log sink: delivery failed", slog.Any("err", err))
			return
		}
		resp.Body.Close()
	}()
}

// Nop is a disabled sink.
type Nop struct{}

// Log discards the event.
func (Nop) Log(ctx context.Context, level, pkg, message string) {}
