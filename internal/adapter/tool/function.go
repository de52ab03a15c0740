package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"finance-agent/internal/application/port/output"
	"finance-agent/internal/domain/entity"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// FunctionTool binds a typed handler to a JSON schema reflected from its
// argument struct. Raw model arguments are validated against that schema
// before they are decoded into T.
type FunctionTool[T, R any] struct {
	name        entity.ToolName
	description string
	parameters  map[string]any
	schema      *gojsonschema.Schema
	handler     func(ctx context.Context, args T) (R, error)
}

var _ output.ToolPort = (*FunctionTool[struct{}, struct{}])(nil)

func NewFunctionTool[T, R any](name entity.ToolName, description string, handler func(ctx context.Context, args T) (R, error)) (*FunctionTool[T, R], error) {
	parameters, err := reflectParameters[T]()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(parameters))
	if err != nil {
		return nil, fmt.Errorf("%s: compiling schema: %w", name, err)
	}

	return &FunctionTool[T, R]{
		name:        name,
		description: description,
		parameters:  parameters,
		schema:      schema,
		handler:     handler,
	}, nil
}

func reflectParameters[T any]() (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
		Anonymous:                 true,
	}

	var zero T
	raw, err := json.Marshal(reflector.Reflect(&zero))
	if err != nil {
		return nil, fmt.Errorf("marshalling schema: %w", err)
	}

	var parameters map[string]any
	if err := json.Unmarshal(raw, &parameters); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	delete(parameters, "$schema")
	delete(parameters, "$id")
	return parameters, nil
}

func (t *FunctionTool[T, R]) Name() entity.ToolName      { return t.name }
func (t *FunctionTool[T, R]) Description() string        { return t.description }
func (t *FunctionTool[T, R]) Parameters() map[string]any { return t.parameters }

func (t *FunctionTool[T, R]) Execute(ctx context.Context, arguments string) (string, error) {
	args, err := t.decode(arguments)
	if err != nil {
		return "", err
	}

	result, err := t.handler(ctx, args)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encoding %s result: %w", t.name, err)
	}
	return string(out), nil
}

func (t *FunctionTool[T, R]) decode(arguments string) (T, error) {
	var args T

	arguments = strings.TrimSpace(arguments)
	if arguments == "" {
		arguments = "{}"
	}

	result, err := t.schema.Validate(gojsonschema.NewStringLoader(arguments))
	if err != nil {
		return args, fmt.Errorf("%w: arguments are not valid JSON: %w", entity.ErrInvalidArguments, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return args, fmt.Errorf("%w: %s", entity.ErrInvalidArguments, strings.Join(msgs, "; "))
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(arguments)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&args); err != nil {
		return args, fmt.Errorf("%w: %w", entity.ErrInvalidArguments, err)
	}
	return args, nil
}
