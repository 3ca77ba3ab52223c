// Package content supplies the grounding text injected into the
// game-master prompt: the adventure module document, cached in-process
// with a freshness window and a static fallback.
package content

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/af-corp/bughunt-backend/internal/config"
	"github.com/af-corp/bughunt-backend/internal/telemetry"
)

// Fallback is served when the blob store is unreachable or unconfigured.
// It must never be empty: the prompt composer relies on grounding text
// always being present.
const Fallback = `Another Bug Hunt v1.2 - Sci-fi Horror TTRPG Module

SETTING: Derelict space station with organic growths
TONE: Horror, survival, investigation
THEMES: Isolation, corruption, alien infestation

The module contains detailed descriptions of:
- Space station layout and rooms
- Alien creatures and their behaviors
- Environmental hazards and atmosphere
- NPCs and their motivations
- Key locations and items
- Horror elements and jump scares`

// maxDocumentBytes caps how much of the module document is read into the
// prompt. Anything past this adds token cost without adding grounding.
const maxDocumentBytes = 64 * 1024

// Provider owns the single shared cache entry for the grounding text.
// The mutex only guards against torn reads of the (text, fetchedAt)
// pair; concurrent refreshes may race and the last writer wins, which at
// worst costs a redundant fetch.
type Provider struct {
	cfg     config.ContentConfig
	client  *http.Client
	logger  *slog.Logger
	metrics *telemetry.Metrics
	now     func() time.Time

	mu        sync.Mutex
	text      string
	fetchedAt time.Time
}

// NewProvider creates a content provider. The clock is injectable so
// tests control cache freshness directly.
func NewProvider(cfg config.ContentConfig, logger *slog.Logger, metrics *telemetry.Metrics) *Provider {
	return &Provider{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// WithClock overrides the provider's clock. Test hook.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// Grounding returns the module text for prompt composition. It never
// fails outward: any fetch problem degrades to a cached or fallback
// value.
func (p *Provider) Grounding() string {
	p.mu.Lock()
	text, fetchedAt := p.text, p.fetchedAt
	p.mu.Unlock()

	if text != "" && p.now().Sub(fetchedAt) < p.cfg.CacheTTL {
		p.metrics.RecordGrounding("hit")
		return text
	}

	fresh, err := p.fetch()
	if err != nil {
		p.logger.Warn("grounding fetch failed", "error", err, "document", p.cfg.Document)
		if text != "" {
			// Keep serving the stale entry; next access retries.
			p.metrics.RecordGrounding("stale")
			return text
		}
		p.store(Fallback)
		p.metrics.RecordGrounding("fallback")
		return Fallback
	}

	p.store(fresh)
	p.metrics.RecordGrounding("refresh")
	return fresh
}

func (p *Provider) store(text string) {
	p.mu.Lock()
	p.text = text
	p.fetchedAt = p.now()
	p.mu.Unlock()
}

func (p *Provider) fetch() (string, error) {
	if p.cfg.BaseURL == "" {
		return "", fmt.Errorf("blob store not configured")
	}

	url := p.cfg.BaseURL + "/" + p.cfg.Document
	resp, err := p.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch module document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("blob store returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("read module document: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("blob store returned empty document")
	}

	p.logger.Info("grounding text refreshed", "document", p.cfg.Document, "bytes", len(body))
	return string(body), nil
}
