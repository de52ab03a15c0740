package openrouter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"finance-agent/internal/application/port/output"
	"finance-agent/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
)

var _ output.LLMPort = (*OpenRouterAdapter)(nil)

type OpenRouterAdapter struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    output.LoggerPort
}

type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
	Logger    output.LoggerPort
	// LogHTTP logs every request and response body at debug level.
	LogHTTP bool
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:    apiKey,
		Model:     model,
		BaseURL:   "https://openrouter.ai/api/v1",
		MaxTokens: 4096,
		Timeout:   90 * time.Second,
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, _ = io.ReadAll(req.Body)
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	t.logger.Debug("LLM request",
		"method", req.Method,
		"url", req.URL.String(),
		"bytes", len(bodyBytes),
		"body", string(bodyBytes),
	)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("LLM request failed", "error", err, "elapsed", time.Since(start).String())
		return nil, err
	}

	t.logger.Debug("LLM response",
		"status", resp.Status,
		"statusCode", resp.StatusCode,
		"elapsed", time.Since(start).String(),
	)
	return resp, nil
}

func NewOpenRouterAdapter(cfg Config) *OpenRouterAdapter {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.LogHTTP && cfg.Logger != nil {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient = &http.Client{
			Timeout:   httpClient.Timeout,
			Transport: &loggingTransport{base: base, logger: cfg.Logger},
		}
	}
	config.HTTPClient = httpClient

	return &OpenRouterAdapter{
		client:    openai.NewClientWithConfig(config),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
	}
}

func (a *OpenRouterAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = a.maxTokens
	}

	request := openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    convertMessages(req.Messages),
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
	if len(req.Tools) > 0 {
		request.Tools = convertTools(req.Tools)
		request.ToolChoice = "auto"
	}

	if a.logger != nil {
		a.logger.Debug("Creating chat completion",
			"model", a.model,
			"messagesCount", len(request.Messages),
			"toolsCount", len(request.Tools),
			"maxTokens", maxTokens)
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, &chatError{msg: "chat completion failed: " + describe(err), cause: err}
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", entity.ErrModel)
	}

	choice := resp.Choices[0]
	return &output.ChatResponse{
		Message: convertResponseMessage(choice.Message),
		Usage: entity.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		FinishReason: string(choice.FinishReason),
	}, nil
}

// chatError reports the redacted description but still matches both
// entity.ErrModel and the transport cause, such as context.DeadlineExceeded.
type chatError struct {
	msg   string
	cause error
}

func (e *chatError) Error() string {
	return entity.ErrModel.Error() + ": " + e.msg
}

func (e *chatError) Unwrap() []error {
	return []error{entity.ErrModel, e.cause}
}

// describe keeps the provider status and message but never the request.
func describe(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("status %d", reqErr.HTTPStatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return err.Error()
}

func convertMessages(messages []entity.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
			Name:       msg.Name,
		}

		for _, tc := range msg.ToolCalls {
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}

		result = append(result, oaiMsg)
	}
	return result
}

func convertTools(tools []entity.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name.String(),
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return result
}

func convertResponseMessage(msg openai.ChatCompletionMessage) entity.Message {
	result := entity.Message{
		Role:    entity.RoleAssistant,
		Content: msg.Content,
	}

	for _, tc := range msg.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, entity.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return result
}
