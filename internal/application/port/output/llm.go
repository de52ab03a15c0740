package output

import (
	"context"

	"finance-agent/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Temperature float32
	MaxTokens   int
}

type ChatResponse struct {
	Message      entity.Message
	Usage        entity.TokenUsage
	FinishReason string
}

// TokenEstimator approximates token counts when the provider reports no usage.
type TokenEstimator interface {
	CountTokens(text string) int
}
