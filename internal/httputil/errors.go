package httputil

import (
	"encoding/json"
	"net/http"
)

// APIError is the plain-HTTP error envelope. The platform-envelope mode
// never uses these: there, failures travel as spoken content in an
// HTTP 200 body.
type APIError struct {
	Error string `json:"error"`
	// Response optionally carries an SSML-shaped fallback so a caller
	// that only renders speech still has something to play.
	Response string `json:"response,omitempty"`
}

func WriteError(w http.ResponseWriter, statusCode int, message, fallbackSSML string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(APIError{
		Error:    message,
		Response: fallbackSSML,
	})
}

func WriteBadRequestError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, "")
}

func WriteRateLimitError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, "")
}

func WriteInternalError(w http.ResponseWriter, message, fallbackSSML string) {
	WriteError(w, http.StatusInternalServerError, message, fallbackSSML)
}
