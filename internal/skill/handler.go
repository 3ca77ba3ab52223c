// Package skill routes inbound voice-platform requests: it classifies
// the envelope, runs the completion pipeline for spoken commands, and
// converts every failure into a deterministic spoken fallback.
package skill

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/af-corp/bughunt-backend/internal/alexa"
	"github.com/af-corp/bughunt-backend/internal/completion"
	"github.com/af-corp/bughunt-backend/internal/httputil"
	"github.com/af-corp/bughunt-backend/internal/journal"
	"github.com/af-corp/bughunt-backend/internal/prompt"
	"github.com/af-corp/bughunt-backend/internal/telemetry"
)

const maxBodyBytes = 1 << 20

// Completer is the completion pipeline dependency. Failures wrap the
// completion package's taxonomy sentinels. Provider names the active
// upstream so transcripts record which model answered.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Provider() string
}

// Grounder supplies the module text for prompt composition.
type Grounder interface {
	Grounding() string
}

// Journal is the transcript sink dependency.
type Journal interface {
	Record(e journal.Entry)
}

// Handler holds dependencies for the skill HTTP handlers.
type Handler struct {
	grounder  Grounder
	completer Completer
	journal   Journal
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

func NewHandler(grounder Grounder, completer Completer, journal Journal, metrics *telemetry.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		grounder:  grounder,
		completer: completer,
		journal:   journal,
		metrics:   metrics,
		logger:    logger,
	}
}

// askProbe sniffs which of the two accepted body shapes arrived: the
// platform envelope (has request.type) or the plain form.
type askProbe struct {
	Request   *alexa.RequestBody `json:"request"`
	UserInput *string            `json:"userInput"`
	SessionID string             `json:"sessionId"`
}

type plainResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

// Ask handles POST /ask in both envelope and plain modes.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteBadRequestError(w, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var probe askProbe
	if err := json.Unmarshal(body, &probe); err != nil {
		httputil.WriteBadRequestError(w, "Invalid JSON: "+err.Error())
		return
	}

	if probe.Request != nil && probe.Request.Type != "" {
		h.askEnvelope(w, r, body)
		return
	}
	h.askPlain(w, r, probe)
}

// AskOptions handles the CORS preflight for /ask.
func (h *Handler) AskOptions(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusOK)
}

// askEnvelope serves the platform-envelope mode. Always HTTP 200:
// failure is communicated through the speech field because the platform
// only renders the envelope.
func (h *Handler) askEnvelope(w http.ResponseWriter, r *http.Request, body []byte) {
	var env alexa.RequestEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.respond(w, "other", alexa.Build(speechSystemError, alexa.Options{EndSession: true}), "invalid_envelope")
		return
	}

	h.logger.Info("inbound envelope",
		"request_type", env.Request.Type,
		"intent", env.IntentName(),
		"session_id", env.Session.SessionID,
		"new_session", env.Session.New,
	)

	switch env.Request.Type {
	case alexa.TypeLaunchRequest:
		h.respond(w, "launch", alexa.Build(speechWelcome, alexa.Options{
			CardTitle:   cardTitle,
			CardContent: cardWelcome,
		}), "ok")

	case alexa.TypeIntentRequest:
		h.askIntent(w, r, &env)

	case alexa.TypeSessionEndedRequest:
		h.respond(w, "session_end", alexa.Build(speechFarewell, alexa.Options{EndSession: true}), "ok")

	default:
		h.respond(w, "other", alexa.Build(speechNotUnderstood, alexa.Options{EndSession: true}), "ok")
	}
}

func (h *Handler) askIntent(w http.ResponseWriter, r *http.Request, env *alexa.RequestEnvelope) {
	switch env.IntentName() {
	case alexa.IntentCancel, alexa.IntentStop:
		h.respond(w, "intent", alexa.Build(speechFarewell, alexa.Options{EndSession: true}), "ok")
		return
	case alexa.IntentHelp:
		h.respond(w, "intent", alexa.Build(speechHelp, alexa.Options{}), "ok")
		return
	}

	utterance := env.Utterance()
	if utterance == "" {
		if env.IntentName() == alexa.IntentCatchAll {
			h.respond(w, "intent", alexa.Build(speechRepeat, alexa.Options{}), "empty_utterance")
			return
		}
		h.respond(w, "intent", alexa.Build(speechUnknownCommand, alexa.Options{}), "unknown_intent")
		return
	}

	if isTermination(utterance) {
		h.respond(w, "intent", alexa.Build(speechFarewell, alexa.Options{EndSession: true}), "ok")
		return
	}

	envResp, outcome := h.pipeline(r.Context(), env.Session.SessionID, utterance)
	h.respond(w, "intent", envResp, outcome)
}

// askPlain serves the plain-HTTP mode used by the relay and by direct
// API callers. Unlike envelope mode it uses real status codes.
func (h *Handler) askPlain(w http.ResponseWriter, r *http.Request, probe askProbe) {
	if probe.UserInput == nil || *probe.UserInput == "" {
		h.metrics.RecordRequest("plain", "invalid_input")
		httputil.WriteBadRequestError(w, "userInput is required")
		return
	}
	utterance := *probe.UserInput

	sessionID := probe.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	h.logger.Info("inbound plain request", "session_id", sessionID)

	if isTermination(utterance) {
		h.metrics.RecordRequest("plain", "ok")
		h.writeJSON(w, http.StatusOK, plainResponse{Response: speechFarewell, SessionID: sessionID})
		return
	}

	text, err := h.complete(r.Context(), sessionID, utterance)
	if err != nil {
		h.metrics.RecordRequest("plain", outcomeFor(err))
		switch {
		case errors.Is(err, completion.ErrNotConfigured):
			httputil.WriteInternalError(w, "AI service not configured", speechNotConfigured)
		case errors.Is(err, completion.ErrTimeout):
			httputil.WriteInternalError(w, "AI service timed out", speechTimeout)
		default:
			httputil.WriteInternalError(w, "AI service unavailable", speechUnavailable)
		}
		return
	}

	h.metrics.RecordRequest("plain", "ok")
	h.writeJSON(w, http.StatusOK, plainResponse{
		Response:  alexa.EnsureSpeak(text),
		SessionID: sessionID,
	})
}

// pipeline runs grounding → prompt → completion and maps the failure
// taxonomy onto response envelopes. Never returns an error.
func (h *Handler) pipeline(ctx context.Context, sessionID, utterance string) (alexa.ResponseEnvelope, string) {
	text, err := h.complete(ctx, sessionID, utterance)
	if err != nil {
		switch {
		case errors.Is(err, completion.ErrNotConfigured):
			return alexa.Build(speechNotConfigured, alexa.Options{EndSession: true}), "not_configured"
		case errors.Is(err, completion.ErrTimeout):
			return alexa.Build(speechTimeout, alexa.Options{}), "timeout"
		default:
			return alexa.Build(speechUnavailable, alexa.Options{EndSession: true}), "unavailable"
		}
	}
	return alexa.Build(text, alexa.Options{}), "ok"
}

func (h *Handler) complete(ctx context.Context, sessionID, utterance string) (string, error) {
	p := prompt.Compose(utterance, h.grounder.Grounding())

	start := time.Now()
	text, err := h.completer.Complete(ctx, p.System, p.User)
	if err != nil {
		h.logger.Warn("completion failed", "error", err, "session_id", sessionID)
		return "", err
	}

	if h.journal != nil {
		h.journal.Record(journal.Entry{
			SessionID:  sessionID,
			Utterance:  utterance,
			Reply:      text,
			Provider:   h.completer.Provider(),
			DurationMs: time.Since(start).Milliseconds(),
		})
	}
	return text, nil
}

func (h *Handler) respond(w http.ResponseWriter, kind string, env alexa.ResponseEnvelope, outcome string) {
	h.metrics.RecordRequest(kind, outcome)
	h.writeJSON(w, http.StatusOK, env)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response failed", "error", err)
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, completion.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, completion.ErrTimeout):
		return "timeout"
	default:
		return "unavailable"
	}
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
