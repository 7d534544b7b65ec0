package extract

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider calls the Gemini API through the genai SDK.
type GeminiProvider struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiProvider(model string, opts ProviderOptions) *GeminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{
		model:      model,
		baseURL:    opts.BaseURL,
		httpClient: opts.httpClient(),
	}
}

func (p *GeminiProvider) Name() string  { return ProviderGemini }
func (p *GeminiProvider) Model() string { return p.model }

func (p *GeminiProvider) Complete(ctx context.Context, credential string, prompt Prompt) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:     credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", &ExternalServiceError{Provider: ProviderGemini, Message: err.Error()}
	}

	temp := float32(prompt.Temperature)
	result, err := client.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt.User}},
		}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: prompt.System}},
			},
			Temperature:     &temp,
			MaxOutputTokens: int32(prompt.MaxTokens),
		},
	)
	if err != nil {
		return "", geminiError(err)
	}
	if result == nil {
		return "", &ExternalServiceError{Provider: ProviderGemini, Message: "gemini returned nil result"}
	}
	return result.Text(), nil
}

// geminiError maps the SDK's APIError, which is returned by value with Code
// taken from the error body.
func geminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ExternalServiceError{Provider: ProviderGemini, StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	return &ExternalServiceError{Provider: ProviderGemini, Message: err.Error()}
}
