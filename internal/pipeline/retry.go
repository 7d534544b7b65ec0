package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/vindo333/extractor/internal/extract"
)

// DefaultMaxRetries is the retry budget for a model call when none is
// configured.
const DefaultMaxRetries = 2

// IsRetryable reports whether err is a model call failing with 429 or 5xx.
func IsRetryable(err error) bool {
	var svcErr *extract.ExternalServiceError
	return errors.As(err, &svcErr) && svcErr.Retryable()
}

const maxBackoff = 30 * time.Second

// Backoff returns a duration for attempt n (0-indexed) with jitter. The base
// doubles from one second and stops at maxBackoff.
func Backoff(attempt int) time.Duration {
	base := maxBackoff
	if attempt < 5 {
		base = time.Duration(1<<uint(max(attempt, 0))) * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
