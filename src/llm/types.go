// Package llm defines the provider-neutral contract between the conversation
// driver and the external reasoning engine.
package llm

import (
	"encoding/json"
	"time"

	jsonschema "github.com/swaggest/jsonschema-go"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// Name is required for tool responses to identify the function
	Name string `json:"name,omitempty"`
	// ToolCallID is required for tool responses to reference the original call
	ToolCallID string `json:"tool_call_id,omitempty"`
	// ToolCalls contains function calls requested by the assistant.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// Metadata for message tracking
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Message role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a single function call requested by the reasoning engine.
// Arguments arrive as untyped JSON and are parsed at the dispatch boundary.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolSpec describes a callable operation advertised to the reasoning engine.
// The schema is declarative data only; handlers keep their own typed signatures.
type ToolSpec struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// TurnRequest is one request/response cycle's worth of input to the engine.
type TurnRequest struct {
	System      string
	Messages    []Message
	Tools       []ToolSpec
	Temperature *float64
	MaxTokens   int
}

// TurnResult is what the engine produced for one turn: final text, tool call
// requests, or neither (an anomaly the driver handles).
type TurnResult struct {
	Text      string
	ToolCalls []ToolCall
	Usage     Usage
}

// Usage tracks token consumption for a single turn.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Total returns the combined token count for the turn.
func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

// SchemaAsMap converts a tool parameter schema to the generic map form the
// provider SDKs expect. Returns an empty object schema when the tool
// declares no parameters.
func SchemaAsMap(s *jsonschema.Schema) map[string]any {
	if s == nil {
		return map[string]any{"type": "object"}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{"type": "object"}
	}
	return m
}
