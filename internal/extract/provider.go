package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Provider names accepted by NewProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Prompt is one model request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Provider issues a single chat-style completion and returns the message
// text. Implementations never retry and report failures as
// *ExternalServiceError.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, credential string, p Prompt) (string, error)
}

// ProviderOptions configures the provider transport.
type ProviderOptions struct {
	BaseURL string
	Timeout time.Duration
}

func (o ProviderOptions) httpClient() *http.Client {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// NewProvider builds the named provider. An empty model selects the
// provider's default.
func NewProvider(name, model string, opts ProviderOptions) (Provider, error) {
	switch name {
	case ProviderOpenAI, "":
		return NewOpenAIProvider(model, opts), nil
	case ProviderAnthropic:
		return NewClaudeProvider(model, opts), nil
	case ProviderGemini:
		return NewGeminiProvider(model, opts), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", name)
	}
}
