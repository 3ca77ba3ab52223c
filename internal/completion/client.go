// Package completion wraps the language-model call behind a single
// bounded-timeout attempt with a typed failure taxonomy.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/af-corp/bughunt-backend/internal/completion/adapters"
	"github.com/af-corp/bughunt-backend/internal/config"
	"github.com/af-corp/bughunt-backend/internal/telemetry"
)

// The failure taxonomy. Every error returned by Complete wraps exactly
// one of these so the request router can pick its deterministic spoken
// fallback with errors.Is.
var (
	ErrNotConfigured = errors.New("completion provider not configured")
	ErrTimeout       = errors.New("completion deadline exceeded")
	ErrUnavailable   = errors.New("completion provider unavailable")
)

// Client performs one completion per request. No retries: the voice
// platform enforces its own end-to-end deadline, and an internal retry
// would risk blowing past it.
type Client struct {
	registry *Registry
	health   *HealthTracker
	cfg      func() config.CompletionConfig
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

func NewClient(registry *Registry, health *HealthTracker, cfg func() config.CompletionConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	return &Client{
		registry: registry,
		health:   health,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
	}
}

// Provider returns the configured provider name. Callers that record
// the exchange use this rather than threading the name through Complete.
func (c *Client) Provider() string {
	return c.cfg().Provider
}

// Complete sends one exchange to the active provider and returns the
// model's raw reply text. SSML shaping is the response formatter's job.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	cfg := c.cfg()

	adapter, ok := c.registry.Get(cfg.Provider)
	if !ok {
		return "", fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.Provider)
	}
	if !adapter.Configured() {
		return "", fmt.Errorf("%w: %s has no credential", ErrNotConfigured, adapter.Name())
	}

	var breaker *CircuitBreaker
	if c.health != nil {
		breaker = c.health.Breaker(adapter.Name())
		if !breaker.Allow() {
			return "", fmt.Errorf("%w: circuit open for %s", ErrUnavailable, adapter.Name())
		}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	ex := adapters.Exchange{
		System:      system,
		User:        user,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	req, err := adapter.BuildRequest(ctx, ex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	start := time.Now()
	resp, err := adapter.SendRequest(req)
	if err != nil {
		if breaker != nil {
			breaker.RecordFailure()
		}
		if isTimeout(ctx, err) {
			c.metrics.RecordCompletion(adapter.Name(), "timeout", msSince(start))
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		c.metrics.RecordCompletion(adapter.Name(), "error", msSince(start))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text, err := adapter.ParseResponse(resp)
	if err != nil {
		if breaker != nil {
			breaker.RecordFailure()
		}
		c.metrics.RecordCompletion(adapter.Name(), "error", msSince(start))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if breaker != nil {
		breaker.RecordSuccess()
	}
	c.metrics.RecordCompletion(adapter.Name(), "ok", msSince(start))
	c.logger.Info("completion ok",
		"provider", adapter.Name(),
		"duration_ms", time.Since(start).Milliseconds(),
		"reply_chars", len(text),
	)
	return text, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Milliseconds())
}
