package alexa

// Request kinds sent by the voice platform.
const (
	TypeLaunchRequest       = "LaunchRequest"
	TypeIntentRequest       = "IntentRequest"
	TypeSessionEndedRequest = "SessionEndedRequest"
)

// Built-in intent names that terminate or assist the session.
const (
	IntentCatchAll = "CatchAllIntent"
	IntentHelp     = "AMAZON.HelpIntent"
	IntentCancel   = "AMAZON.CancelIntent"
	IntentStop     = "AMAZON.StopIntent"
)

// RequestEnvelope is the platform request schema. Only the fields the
// skill reads are modeled; everything else passes through unparsed.
type RequestEnvelope struct {
	Version string      `json:"version,omitempty"`
	Session SessionInfo `json:"session"`
	Request RequestBody `json:"request"`
}

type SessionInfo struct {
	New       bool   `json:"new,omitempty"`
	SessionID string `json:"sessionId"`
}

type RequestBody struct {
	Type   string  `json:"type"`
	Intent *Intent `json:"intent,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// Utterance extracts the spoken command from the intent slots. The skill
// model historically used both "userInput" and "query" slot names.
func (r *RequestEnvelope) Utterance() string {
	if r.Request.Intent == nil {
		return ""
	}
	for _, name := range []string{"userInput", "query"} {
		if slot, ok := r.Request.Intent.Slots[name]; ok && slot.Value != "" {
			return slot.Value
		}
	}
	return ""
}

// IntentName returns the intent name, or "" for non-intent requests.
func (r *RequestEnvelope) IntentName() string {
	if r.Request.Intent == nil {
		return ""
	}
	return r.Request.Intent.Name
}
