package alexa

import "strings"

// ResponseEnvelope is the fixed response shape the platform renders.
// Always version "1.0"; the speech field carries SSML.
type ResponseEnvelope struct {
	Version  string       `json:"version"`
	Response ResponseBody `json:"response"`
}

type ResponseBody struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	ShouldEndSession bool         `json:"shouldEndSession"`
	Card             *Card        `json:"card,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	SSML string `json:"ssml"`
}

// Card is the optional "Simple" display card shown in the companion app.
type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Options control session continuation and the optional display card.
type Options struct {
	EndSession  bool
	CardTitle   string
	CardContent string
}

// Build wraps speech text into a response envelope. Text that does not
// already carry a <speak> root is wrapped so the renderer never receives
// bare text; model output that is already SSML passes through verbatim.
func Build(text string, opts Options) ResponseEnvelope {
	env := ResponseEnvelope{
		Version: "1.0",
		Response: ResponseBody{
			OutputSpeech: OutputSpeech{
				Type: "SSML",
				SSML: EnsureSpeak(text),
			},
			ShouldEndSession: opts.EndSession,
		},
	}

	if opts.CardTitle != "" && opts.CardContent != "" {
		env.Response.Card = &Card{
			Type:    "Simple",
			Title:   opts.CardTitle,
			Content: opts.CardContent,
		}
	}

	return env
}

// EnsureSpeak wraps plain text in the SSML root and the default narrator
// voice. Well-formedness of model-produced SSML is not validated beyond
// the root check.
func EnsureSpeak(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "<speak") {
		return trimmed
	}
	return `<speak><voice name="Joanna">` + trimmed + `</voice></speak>`
}
