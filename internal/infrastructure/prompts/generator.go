package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"finance-agent/internal/application/port/output"
	"finance-agent/internal/domain/entity"
)

//go:embed system.txt
var SystemPrompt string

type ToolInfo struct {
	Name        string
	Description string
}

type SystemPromptData struct {
	Tools   []ToolInfo
	Periods []entity.Period
}

// GenerateSystemPrompt renders baseTemplate with the registered tools, in
// registration order, and the history periods the tools accept.
func GenerateSystemPrompt(baseTemplate string, registry output.ToolRegistry) (string, error) {
	tools := registry.All()
	data := SystemPromptData{
		Tools:   make([]ToolInfo, 0, len(tools)),
		Periods: entity.Periods(),
	}
	for _, t := range tools {
		data.Tools = append(data.Tools, ToolInfo{
			Name:        t.Name().String(),
			Description: t.Description(),
		})
	}

	tmpl, err := template.New("system").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", fmt.Errorf("parse system prompt: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return buf.String(), nil
}
