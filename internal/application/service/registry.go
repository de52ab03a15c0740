package service

import (
	"errors"
	"fmt"
	"sync"

	"finance-agent/internal/application/port/output"
	"finance-agent/internal/domain/entity"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

var ErrDuplicateTool = errors.New("tool already registered")

// ToolRegistryImpl holds the tools offered to the model. Tools are kept in
// registration order so every request carries the same tool list, and a name
// can be registered only once.
type ToolRegistryImpl struct {
	mu    sync.RWMutex
	tools map[entity.ToolName]output.ToolPort
	order []entity.ToolName
}

func NewToolRegistry() *ToolRegistryImpl {
	return &ToolRegistryImpl{
		tools: make(map[entity.ToolName]output.ToolPort),
	}
}

func (r *ToolRegistryImpl) Register(tool output.ToolPort) error {
	name := tool.Name()
	if name == "" {
		return errors.New("tool name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *ToolRegistryImpl) All() []output.ToolPort {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]output.ToolPort, len(r.order))
	for i, name := range r.order {
		tools[i] = r.tools[name]
	}
	return tools
}

// Definitions is what the LLM adapter attaches to every chat request.
func (r *ToolRegistryImpl) Definitions() []entity.ToolDefinition {
	tools := r.All()
	defs := make([]entity.ToolDefinition, len(tools))
	for i, tool := range tools {
		defs[i] = entity.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		}
	}
	return defs
}
