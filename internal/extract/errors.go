package extract

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingCredential is returned when neither the request nor the server
// configuration supplies a model credential.
var ErrMissingCredential = errors.New("model API key is required")

// ExternalServiceError is a failed model call: a transport error (StatusCode
// 0) or a non-success HTTP status. Message is the provider's text verbatim.
type ExternalServiceError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

// Retryable reports whether the status is rate limiting or a server error.
func (e *ExternalServiceError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ResponseFormatError is a model reply that does not contain a JSON array.
type ResponseFormatError struct {
	Reason  string
	Content string
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("invalid model response: %s (raw: %s)", e.Reason, truncate(e.Content, 200))
}

func truncate(s string, n int) string {
	if t := TruncateContent(s, n); len(t) < len(s) {
		return t + "..."
	}
	return s
}
