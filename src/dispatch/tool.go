// Package dispatch holds the tool catalog and the concurrent dispatcher that
// executes the reasoning engine's tool calls.
package dispatch

import (
	"context"
	"encoding/json"
	"time"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/mpiekarski/plantiq/src/llm"
)

// Tool is one callable operation: declarative schema for the catalog plus a
// handler behind the dispatch boundary.
type Tool interface {
	Name() string
	Description() string
	Parameters() *jsonschema.Schema

	// Execute runs the tool. Argument and handler failures are reported in
	// the Response (IsError), not as Go errors; a non-nil error means the
	// tool machinery itself broke.
	Execute(ctx context.Context, call *llm.ToolCall) (*Response, error)
}

// Response is a handler's raw outcome before dispatch metadata is attached.
type Response struct {
	Content []byte
	IsError bool
}

// ToolResult is the per-call outcome appended to conversation history. One
// is produced for every requested call, success or not, in call order.
type ToolResult struct {
	CallID   string
	Name     string
	Content  json.RawMessage
	IsError  bool
	Duration time.Duration
}

// Message converts the result into the tool-role history message.
func (r ToolResult) Message() llm.Message {
	return llm.Message{
		Role:       llm.RoleTool,
		Name:       r.Name,
		ToolCallID: r.CallID,
		Content:    string(r.Content),
		CreatedAt:  time.Now(),
	}
}

// errorContent shapes a failure so the reasoning engine can read it and
// adjust its next call.
func errorContent(msg string) json.RawMessage {
	raw, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return json.RawMessage(`{"error":"internal error"}`)
	}
	return raw
}
