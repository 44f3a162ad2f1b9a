package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/mpiekarski/plantiq/src/llm"
)

// Handler is a strongly typed tool implementation. The untyped JSON arguments
// from the reasoning engine are parsed into TInput at the dispatch boundary.
type Handler[TInput any, TOutput any] func(ctx context.Context, input TInput) (TOutput, error)

// GenericTool adapts a typed handler to the Tool interface. The parameter
// schema is reflected from TInput's struct tags and kept as declarative data
// for the catalog.
type GenericTool[TInput any, TOutput any] struct {
	name        string
	description string
	schema      *jsonschema.Schema
	handler     Handler[TInput, TOutput]
}

// NewGenericTool builds a tool from a typed handler. TInput must be a struct
// so a parameter schema can be reflected from it.
func NewGenericTool[TInput any, TOutput any](name, description string, handler Handler[TInput, TOutput]) (*GenericTool[TInput, TOutput], error) {
	var input TInput
	inputType := reflect.TypeOf(input)
	if inputType.Kind() == reflect.Ptr {
		inputType = inputType.Elem()
	}
	if inputType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool input type must be a struct, got %s", inputType.Kind())
	}

	reflector := jsonschema.Reflector{}
	schema, err := reflector.Reflect(input)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for %s: %w", name, err)
	}

	return &GenericTool[TInput, TOutput]{
		name:        name,
		description: description,
		schema:      &schema,
		handler:     handler,
	}, nil
}

func (t *GenericTool[TInput, TOutput]) Name() string                  { return t.name }
func (t *GenericTool[TInput, TOutput]) Description() string           { return t.description }
func (t *GenericTool[TInput, TOutput]) Parameters() *jsonschema.Schema { return t.schema }

// Execute parses and validates arguments, then runs the handler. All
// failures are returned as error responses with a nil Go error so they stay
// scoped to this one call.
func (t *GenericTool[TInput, TOutput]) Execute(ctx context.Context, call *llm.ToolCall) (*Response, error) {
	var input TInput
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &input); err != nil {
			return &Response{
				Content: errorContent(fmt.Sprintf("failed to parse arguments: %v", err)),
				IsError: true,
			}, nil
		}
	}

	if err := t.validateRequired(input); err != nil {
		return &Response{
			Content: errorContent(fmt.Sprintf("argument validation failed: %v", err)),
			IsError: true,
		}, nil
	}

	output, err := t.handler(ctx, input)
	if err != nil {
		return &Response{Content: errorContent(err.Error()), IsError: true}, nil
	}

	content, err := json.Marshal(output)
	if err != nil {
		return &Response{
			Content: errorContent(fmt.Sprintf("failed to marshal result: %v", err)),
			IsError: true,
		}, nil
	}
	return &Response{Content: content}, nil
}

// validateRequired checks required fields against their zero values. The
// schema's required list comes from `required:"true"` struct tags.
func (t *GenericTool[TInput, TOutput]) validateRequired(input TInput) error {
	if t.schema == nil || len(t.schema.Required) == 0 {
		return nil
	}

	val := reflect.ValueOf(input)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for _, required := range t.schema.Required {
		found := false
		for i := 0; i < typ.NumField(); i++ {
			jsonName := strings.Split(typ.Field(i).Tag.Get("json"), ",")[0]
			if jsonName != required {
				continue
			}
			found = true
			if val.Field(i).IsZero() {
				return fmt.Errorf("required field %q is missing", required)
			}
			break
		}
		if !found {
			return fmt.Errorf("required field %q not found in input struct", required)
		}
	}
	return nil
}
