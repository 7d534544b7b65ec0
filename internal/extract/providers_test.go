package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindo333/extractor/internal/triple"
)

var testPrompt = Prompt{System: "be terse", User: "extract", MaxTokens: 64, Temperature: 0.3}

func serve(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func writeJSONStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClaudeProvider_Complete(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))

		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			System    []struct {
				Text string `json:"text"`
			} `json:"system"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-20250514", req.Model)
		assert.Equal(t, 64, req.MaxTokens)
		if assert.Len(t, req.System, 1) {
			assert.Equal(t, "be terse", req.System[0].Text)
		}

		writeJSONStatus(w, http.StatusOK, `{"id":"msg_1","type":"message","role":"assistant",`+
			`"model":"claude-sonnet-4-20250514","stop_reason":"end_turn",`+
			`"content":[{"type":"text","text":"[{\"type\":\"spo\",\"subject\":\"A\",\"predicate\":\"b\",\"object\":\"C\"}]"}],`+
			`"usage":{"input_tokens":10,"output_tokens":5}}`)
	})

	p := NewClaudeProvider("", ProviderOptions{BaseURL: url})
	got, err := NewExtractor(p, Options{}).Extract(context.Background(), page, "sk-ant", "en")
	require.NoError(t, err)
	assert.Equal(t, []triple.Triple{triple.NewSPO("A", "b", "C")}, got)
}

func TestClaudeProvider_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		message   string
		retryable bool
	}{
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"type":"error","error":{"type":"rate_limit_error","message":"Number of requests has exceeded your rate limit"}}`,
			message:   "Number of requests has exceeded your rate limit",
			retryable: true,
		},
		{
			name:      "unauthorized",
			status:    http.StatusUnauthorized,
			body:      `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			message:   "invalid x-api-key",
			retryable: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			url := serve(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeJSONStatus(w, tt.status, tt.body)
			})

			_, err := NewClaudeProvider("", ProviderOptions{BaseURL: url}).Complete(context.Background(), "k", testPrompt)
			var svcErr *ExternalServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, "anthropic", svcErr.Provider)
			assert.Equal(t, tt.status, svcErr.StatusCode)
			assert.Equal(t, tt.message, svcErr.Message)
			assert.Equal(t, tt.retryable, svcErr.Retryable())
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestGeminiProvider_Complete(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "gm-key", r.Header.Get("X-Goog-Api-Key"))

		var req struct {
			SystemInstruction struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"systemInstruction"`
			GenerationConfig struct {
				MaxOutputTokens int `json:"maxOutputTokens"`
			} `json:"generationConfig"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.SystemInstruction.Parts, 1) {
			assert.Equal(t, "be terse", req.SystemInstruction.Parts[0].Text)
		}
		assert.Equal(t, 64, req.GenerationConfig.MaxOutputTokens)

		writeJSONStatus(w, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"[]"}]},"finishReason":"STOP"}]}`)
	})

	got, err := NewGeminiProvider("", ProviderOptions{BaseURL: url}).Complete(context.Background(), "gm-key", testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(got))
}

func TestGeminiProvider_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		message   string
		retryable bool
	}{
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`,
			message:   "Resource has been exhausted (e.g. check quota).",
			retryable: true,
		},
		{
			name:      "unauthorized",
			status:    http.StatusUnauthorized,
			body:      `{"error":{"code":401,"message":"API key not valid. Please pass a valid API key.","status":"UNAUTHENTICATED"}}`,
			message:   "API key not valid. Please pass a valid API key.",
			retryable: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := serve(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSONStatus(w, tt.status, tt.body)
			})

			_, err := NewGeminiProvider("", ProviderOptions{BaseURL: url}).Complete(context.Background(), "k", testPrompt)
			var svcErr *ExternalServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, "gemini", svcErr.Provider)
			assert.Equal(t, tt.status, svcErr.StatusCode)
			assert.Equal(t, tt.message, svcErr.Message)
			assert.Equal(t, tt.retryable, svcErr.Retryable())
		})
	}
}
