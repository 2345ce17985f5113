// Package llm is the gateway to the chat-completion provider. One call is
// exactly one HTTP POST: no retry, no fallback model, no partial-result
// salvage. Callers that want retries own them.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// The three gateway failure modes. Handlers collapse all of them into one
// user-facing generation error; the provider detail is only ever logged.
var (
	ErrRequestFailed     = errors.New("completion request failed")
	ErrMalformedResponse = errors.New("completion response malformed")
	ErrSchemaViolation   = errors.New("completion response violates schema")
)

const defaultMaxTokens = 1024

// CompletionRequest is one structured-output completion call.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	// MaxTokens of 0 means the default cap; providers reject an explicit 0.
	MaxTokens int
}

// Result carries the raw JSON content the model produced plus the usage
// counters read from the response. Token counts are attached for billing and
// observability only, never for control flow.
type Result struct {
	Content    string
	Model      string
	TokensUsed int
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	http     *resty.Client
	gwLogger zerolog.Logger
}

// NewClient builds a gateway client for the given provider endpoint. The API
// key is fixed at construction; the backend owns a single provider key.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:     httpClient,
		gwLogger: logger.With().Str("component", "LLMGateway").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete performs one completion call with JSON-object output enforced by
// the provider.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*Result, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	body := chatCompletionRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature:    req.Temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		c.gwLogger.Error().Err(err).Str("model", req.Model).Msg("Failed to reach completion provider")
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		detail := providerErrorMessage(res.Body())
		c.gwLogger.Error().
			Int("status", res.StatusCode()).
			Str("model", req.Model).
			Str("provider_error", detail).
			Msg("Completion request rejected by provider")
		if detail == "" {
			return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, res.StatusCode())
		}
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, detail)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(res.Body(), &completion); err != nil {
		c.gwLogger.Error().Err(err).Str("model", req.Model).Msg("Failed to decode completion envelope")
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		c.gwLogger.Error().Str("model", req.Model).Msg("Completion response carried no content")
		return nil, fmt.Errorf("%w: empty choices", ErrMalformedResponse)
	}

	return &Result{
		Content:    completion.Choices[0].Message.Content,
		Model:      req.Model,
		TokensUsed: completion.Usage.TotalTokens,
	}, nil
}

// providerErrorMessage pulls the human-readable message out of a provider
// error body, tolerating bodies that are not the documented shape.
func providerErrorMessage(body []byte) string {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err != nil {
		return strings.TrimSpace(string(body))
	}
	return pe.Error.Message
}
