package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mpiekarski/plantiq/src/llm"
)

// Executor is the function form of tool execution used by middleware.
type Executor func(ctx context.Context, call *llm.ToolCall) (*Response, error)

// Middleware wraps an Executor to add cross-cutting behavior. Applied in
// registration order, first registered outermost.
type Middleware func(next Executor) Executor

// Registry is the flat tool catalog: name to handler, immutable once the
// application is wired.
type Registry struct {
	tools      map[string]Tool
	middleware []Middleware
}

// NewRegistry creates an empty catalog.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Empty or duplicate names are wiring bugs and error.
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s is already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Use registers middleware applied to every tool execution.
func (r *Registry) Use(mw Middleware) {
	r.middleware = append(r.middleware, mw)
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Specs returns the catalog advertised to the reasoning engine, in stable
// name order.
func (r *Registry) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(r.tools))
	for _, tool := range r.tools {
		specs = append(specs, llm.ToolSpec{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// execute runs one tool with the middleware chain applied.
func (r *Registry) execute(ctx context.Context, tool Tool, call *llm.ToolCall) (*Response, error) {
	exec := Executor(tool.Execute)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		exec = r.middleware[i](exec)
	}
	return exec(ctx, call)
}

// LoggingMiddleware logs every execution with its outcome.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Executor) Executor {
		return func(ctx context.Context, call *llm.ToolCall) (*Response, error) {
			logger.Debug("executing tool", "tool", call.Name, "call_id", call.ID)
			resp, err := next(ctx, call)
			switch {
			case err != nil:
				logger.Warn("tool execution failed", "tool", call.Name, "call_id", call.ID, "error", err)
			case resp != nil && resp.IsError:
				logger.Info("tool reported error", "tool", call.Name, "call_id", call.ID)
			default:
				logger.Debug("tool execution completed", "tool", call.Name, "call_id", call.ID)
			}
			return resp, err
		}
	}
}
