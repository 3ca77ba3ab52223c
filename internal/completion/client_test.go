package completion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/af-corp/bughunt-backend/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient wires a client whose "openai" provider points at the
// given test server.
func newTestClient(t *testing.T, srvURL, apiKey string, timeout time.Duration) *Client {
	t.Helper()
	registry := BuildFromConfig(&config.ProvidersConfig{
		Providers: map[string]config.ProviderConfig{
			"openai": {
				Type:    "openai",
				BaseURL: srvURL,
				APIKey:  apiKey,
				Model:   "gpt-4o-mini",
				Timeout: timeout,
			},
		},
	})
	cfg := func() config.CompletionConfig {
		return config.CompletionConfig{
			Provider:    "openai",
			Timeout:     timeout,
			MaxTokens:   500,
			Temperature: 0.8,
		}
	}
	return NewClient(registry, NewHealthTracker(5, time.Second), cfg, nil, testLogger())
}

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "<speak>hiss</speak>"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "sk-test", 2*time.Second)
	text, err := c.Complete(context.Background(), "system", "open the door")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "<speak>hiss</speak>" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestClient_ProviderTracksConfig(t *testing.T) {
	c := newTestClient(t, "http://localhost:1", "sk-test", time.Second)
	if got := c.Provider(); got != "openai" {
		t.Errorf("Provider() = %q, want openai", got)
	}
	c.cfg = func() config.CompletionConfig {
		return config.CompletionConfig{Provider: "gemini"}
	}
	if got := c.Provider(); got != "gemini" {
		t.Errorf("Provider() = %q after config change, want gemini", got)
	}
}

func TestComplete_NotConfigured_NoCredential(t *testing.T) {
	c := newTestClient(t, "http://localhost:1", "", 2*time.Second)
	_, err := c.Complete(context.Background(), "system", "open the door")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestComplete_NotConfigured_UnknownProvider(t *testing.T) {
	c := newTestClient(t, "http://localhost:1", "sk-test", 2*time.Second)
	c.cfg = func() config.CompletionConfig {
		return config.CompletionConfig{Provider: "nonexistent", Timeout: time.Second}
	}
	_, err := c.Complete(context.Background(), "system", "open the door")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, "sk-test", 50*time.Millisecond)

	start := time.Now()
	_, err := c.Complete(context.Background(), "system", "open the door")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Complete hung past the deadline: %s", elapsed)
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "sk-test", 2*time.Second)
	_, err := c.Complete(context.Background(), "system", "open the door")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestComplete_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "sk-test", 2*time.Second)
	_, err := c.Complete(context.Background(), "system", "open the door")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestComplete_OpenCircuitFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "sk-test", 2*time.Second)
	c.health = NewHealthTracker(2, time.Minute)

	// Trip the breaker
	c.Complete(context.Background(), "system", "a")
	c.Complete(context.Background(), "system", "b")

	start := time.Now()
	_, err := c.Complete(context.Background(), "system", "c")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable from open circuit, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("expected fail-fast, took %s", elapsed)
	}
}

func TestComplete_SingleAttempt(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "sk-test", 2*time.Second)
	c.Complete(context.Background(), "system", "open the door")
	if calls != 1 {
		t.Errorf("expected exactly one upstream attempt, got %d", calls)
	}
}
