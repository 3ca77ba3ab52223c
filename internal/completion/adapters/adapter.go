package adapters

import (
	"context"
	"net/http"
)

// Exchange is one completion exchange in canonical form: the composed
// system prompt and the player's utterance, plus sampling bounds.
type Exchange struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// ProviderAdapter transforms exchanges between the canonical form and a
// provider-specific completion API.
type ProviderAdapter interface {
	Name() string
	// Configured reports whether a credential is present. Checked before
	// any network call so a missing key fails deterministically.
	Configured() bool
	BuildRequest(ctx context.Context, ex Exchange) (*http.Request, error)
	// ParseResponse extracts the reply text. The text is returned
	// unmodified; SSML shaping is the response formatter's job.
	ParseResponse(resp *http.Response) (string, error)
	// SendRequest sends an HTTP request using the provider's configured client.
	SendRequest(req *http.Request) (*http.Response, error)
}
