// Package relay is the platform-facing adapter: it receives the voice
// platform's envelope, answers the built-in intents locally, and
// forwards spoken commands to the backend's plain /ask endpoint under
// the platform's response deadline.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/af-corp/bughunt-backend/internal/alexa"
)

const (
	speechWelcome = `<speak><voice name="Joanna">Mission online. Awaiting orders.</voice></speak>`

	speechHelp = `<speak><voice name="Joanna">You can explore the space station by describing your actions. Try saying things like open the door, check the medbay, or search for survivors.</voice></speak>`

	speechFarewell = `<speak><voice name="Joanna">Mission terminated. Good luck out there.</voice></speak>`

	speechTimeout = `<speak><voice name="Joanna">System is taking too long to respond. Please try again.</voice></speak>`

	speechError = `<speak><voice name="Joanna">Sorry, there was an error processing your request. Please try again.</voice></speak>`

	speechUnknown = `<speak><voice name="Joanna">I did not understand that command. Please try again.</voice></speak>`
)

// Handler forwards commands to the backend ask endpoint.
type Handler struct {
	askURL string
	client *http.Client
	logger *slog.Logger
}

// NewHandler creates a relay handler. The timeout bounds the whole
// backend round trip; the platform abandons slow responses anyway.
func NewHandler(askURL string, timeout time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		askURL: askURL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Invoke handles one platform envelope. Always HTTP 200.
func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.respond(w, alexa.Build(speechError, alexa.Options{}))
		return
	}
	defer r.Body.Close()

	var env alexa.RequestEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.respond(w, alexa.Build(speechError, alexa.Options{}))
		return
	}

	h.logger.Info("relay envelope",
		"request_type", env.Request.Type,
		"intent", env.IntentName(),
		"session_id", env.Session.SessionID,
	)

	switch env.Request.Type {
	case alexa.TypeLaunchRequest:
		h.respond(w, alexa.Build(speechWelcome, alexa.Options{
			CardTitle:   "Bug Hunt",
			CardContent: "Mission online. Awaiting orders.",
		}))

	case alexa.TypeIntentRequest:
		h.handleIntent(w, r.Context(), &env)

	case alexa.TypeSessionEndedRequest:
		h.respond(w, alexa.Build(speechFarewell, alexa.Options{EndSession: true}))

	default:
		h.respond(w, alexa.Build(speechUnknown, alexa.Options{}))
	}
}

func (h *Handler) handleIntent(w http.ResponseWriter, ctx context.Context, env *alexa.RequestEnvelope) {
	switch env.IntentName() {
	case alexa.IntentHelp:
		h.respond(w, alexa.Build(speechHelp, alexa.Options{}))
		return
	case alexa.IntentCancel, alexa.IntentStop:
		h.respond(w, alexa.Build(speechFarewell, alexa.Options{EndSession: true}))
		return
	case alexa.IntentCatchAll:
		utterance := env.Utterance()
		if utterance == "" {
			h.respond(w, alexa.Build(speechUnknown, alexa.Options{}))
			return
		}
		h.respond(w, h.forward(ctx, utterance, env.Session.SessionID))
		return
	}
	h.respond(w, alexa.Build(speechUnknown, alexa.Options{}))
}

// forward posts the utterance to the backend and wraps its reply. Any
// failure degrades to a spoken fallback; the timeout gets its own
// wording so the player knows to just retry.
func (h *Handler) forward(ctx context.Context, utterance, sessionID string) alexa.ResponseEnvelope {
	payload, _ := json.Marshal(map[string]string{
		"userInput": utterance,
		"sessionId": sessionID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.askURL, bytes.NewReader(payload))
	if err != nil {
		return alexa.Build(speechError, alexa.Options{})
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("backend call failed", "error", err, "session_id", sessionID)
		if isTimeout(err) {
			return alexa.Build(speechTimeout, alexa.Options{})
		}
		return alexa.Build(speechError, alexa.Options{})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.logger.Warn("backend returned error", "status", resp.StatusCode, "session_id", sessionID)
		return alexa.Build(speechError, alexa.Options{})
	}

	var backendResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&backendResp); err != nil || backendResp.Response == "" {
		return alexa.Build(speechError, alexa.Options{})
	}

	return alexa.Build(backendResp.Response, alexa.Options{})
}

func (h *Handler) respond(w http.ResponseWriter, env alexa.ResponseEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(env)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
