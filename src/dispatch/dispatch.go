package dispatch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mpiekarski/plantiq/src/llm"
)

// maxConcurrentCalls bounds the fan-out within one round.
const maxConcurrentCalls = 4

// DispatchAll executes every tool call of one engine turn concurrently and
// returns one result per call in the original call order, regardless of
// completion order. No call outcome can abort the round: unknown names,
// argument failures, and handler panics all become failed results.
func (r *Registry) DispatchAll(ctx context.Context, calls []llm.ToolCall, perCallTimeout time.Duration) []ToolResult {
	results := make([]ToolResult, len(calls))

	// Index-addressed writes keep fan-in ordering; the group only bounds
	// concurrency, never cancels siblings.
	var g errgroup.Group
	g.SetLimit(maxConcurrentCalls)
	for i := range calls {
		g.Go(func() error {
			results[i] = r.dispatchOne(ctx, &calls[i], perCallTimeout)
			return nil
		})
	}
	g.Wait()
	return results
}

func (r *Registry) dispatchOne(ctx context.Context, call *llm.ToolCall, timeout time.Duration) (result ToolResult) {
	start := time.Now()
	result = ToolResult{CallID: call.ID, Name: call.Name}
	defer func() {
		if rec := recover(); rec != nil {
			result.IsError = true
			result.Content = errorContent(fmt.Sprintf("tool %s panicked: %v", call.Name, rec))
		}
		result.Duration = time.Since(start)
	}()

	tool, ok := r.Get(call.Name)
	if !ok {
		result.IsError = true
		result.Content = errorContent(fmt.Sprintf("unknown operation: %s", call.Name))
		return result
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := r.execute(ctx, tool, call)
	if err != nil {
		result.IsError = true
		result.Content = errorContent(err.Error())
		return result
	}
	result.Content = resp.Content
	result.IsError = resp.IsError
	return result
}
