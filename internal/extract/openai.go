package extract

import (
	"context"
	"errors"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAIProvider calls the OpenAI chat completions API, or any compatible
// endpoint when a base URL is configured.
type OpenAIProvider struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIProvider(model string, opts ProviderOptions) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		model:      model,
		baseURL:    opts.BaseURL,
		httpClient: opts.httpClient(),
	}
}

func (p *OpenAIProvider) Name() string  { return ProviderOpenAI }
func (p *OpenAIProvider) Model() string { return p.model }

func (p *OpenAIProvider) Complete(ctx context.Context, credential string, prompt Prompt) (string, error) {
	cfg := openai.DefaultConfig(credential)
	if p.baseURL != "" {
		cfg.BaseURL = p.baseURL
	}
	cfg.HTTPClient = p.httpClient
	client := openai.NewClientWithConfig(cfg)

	// The request field is omitempty; a zero temperature has to be sent as
	// the smallest non-zero value.
	temperature := float32(prompt.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
		MaxTokens:   prompt.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ExternalServiceError{Provider: ProviderOpenAI, Message: "Invalid API response structure"}
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ExternalServiceError{Provider: ProviderOpenAI, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.Error()
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &ExternalServiceError{Provider: ProviderOpenAI, StatusCode: reqErr.HTTPStatusCode, Message: msg}
	}
	return &ExternalServiceError{Provider: ProviderOpenAI, Message: err.Error()}
}
