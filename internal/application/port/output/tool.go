package output

import (
	"context"

	"finance-agent/internal/domain/entity"
)

type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() map[string]any
	// Execute validates the raw JSON arguments and returns the JSON-encoded record.
	Execute(ctx context.Context, arguments string) (string, error)
}

type ToolRegistry interface {
	// Register fails when the name is already taken.
	Register(tool ToolPort) error
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}
