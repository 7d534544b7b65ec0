package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeProvider calls the Anthropic Messages API. SDK retries are disabled;
// retry policy belongs to the pipeline worker.
type ClaudeProvider struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClaudeProvider(model string, opts ProviderOptions) *ClaudeProvider {
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	return &ClaudeProvider{
		model:      model,
		baseURL:    opts.BaseURL,
		httpClient: opts.httpClient(),
	}
}

func (p *ClaudeProvider) Name() string  { return ProviderAnthropic }
func (p *ClaudeProvider) Model() string { return p.model }

func (p *ClaudeProvider) Complete(ctx context.Context, credential string, prompt Prompt) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(credential),
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	client := anthropic.NewClient(opts...)

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(prompt.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: prompt.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
		Temperature: anthropic.Float(prompt.Temperature),
	})
	if err != nil {
		return "", claudeError(err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &ExternalServiceError{Provider: ProviderAnthropic, Message: "empty response from Claude"}
}

// claudeError keeps the API's own error message when the body carries one.
func claudeError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return &ExternalServiceError{Provider: ProviderAnthropic, Message: err.Error()}
	}
	msg := apiErr.Error()
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(apiErr.RawJSON()), &body) == nil && body.Error.Message != "" {
		msg = body.Error.Message
	}
	return &ExternalServiceError{Provider: ProviderAnthropic, StatusCode: apiErr.StatusCode, Message: msg}
}
