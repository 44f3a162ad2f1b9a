// Package orchestrator runs the bounded tool-calling conversation loop. One
// Driver serves one query at a time; rounds within a session are strictly
// sequential, only the tool calls inside a round run concurrently.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mpiekarski/plantiq/src/dispatch"
	"github.com/mpiekarski/plantiq/src/llm"
)

// Loop defaults. The round cap is a hard bound on reasoning-engine calls.
const (
	DefaultMaxRounds   = 5
	DefaultTurnTimeout = 60 * time.Second
	DefaultToolTimeout = 15 * time.Second
)

// Canned terminal messages for sessions that end without final text.
const (
	roundCapFallback    = "I could not finish answering within the allowed number of reasoning steps. Please simplify your request or split it into smaller questions."
	emptyTurnFallback   = "I did not arrive at an answer for that. Could you rephrase the question or add more detail?"
	turnTimeoutFallback = "The reasoning step took too long and was stopped. Please try again, or simplify the request."
)

// state of the conversation loop. Transitions are driven solely by what the
// engine returned for the current round.
type state int

const (
	stateRoundStart state = iota
	stateCallEngine
	stateExecuteTools
	stateDone
	stateDoneFallback
)

// ToolLogEntry is one executed tool call, as surfaced to the caller.
type ToolLogEntry struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"durationMs"`
	Success    bool   `json:"success"`
}

// Result is the outcome of one processed query.
type Result struct {
	Success       bool           `json:"success"`
	Response      string         `json:"response,omitempty"`
	Error         string         `json:"error,omitempty"`
	ExecutedTools []ToolLogEntry `json:"executedTools"`
	Rounds        int            `json:"rounds"`
	TokensUsed    int            `json:"tokensUsed"`
}

// Recorder persists query outcomes and per-tool executions. Implemented by
// the storage layer; a nil Recorder disables persistence.
type Recorder interface {
	RecordQuery(ctx context.Context, sessionID, query string, result *Result) error
	RecordToolExecution(ctx context.Context, sessionID string, exec ToolExecution) error
}

// ToolExecution is the persisted form of one dispatched call.
type ToolExecution struct {
	Round      int
	Name       string
	Input      []byte
	Output     []byte
	IsError    bool
	DurationMs int64
}

// Options tune one Driver.
type Options struct {
	SystemPrompt string
	MaxRounds    int
	TurnTimeout  time.Duration
	ToolTimeout  time.Duration
	MaxTokens    int
	Temperature  *float64
}

func (o Options) withDefaults() Options {
	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultMaxRounds
	}
	if o.TurnTimeout <= 0 {
		o.TurnTimeout = DefaultTurnTimeout
	}
	if o.ToolTimeout <= 0 {
		o.ToolTimeout = DefaultToolTimeout
	}
	return o
}

// Driver owns the loop: engine turns out, tool results back, bounded rounds.
type Driver struct {
	provider llm.ReasoningProvider
	registry *dispatch.Registry
	recorder Recorder
	logger   *slog.Logger
	opts     Options
}

// NewDriver wires a driver. recorder may be nil.
func NewDriver(provider llm.ReasoningProvider, registry *dispatch.Registry, recorder Recorder, logger *slog.Logger, opts Options) *Driver {
	return &Driver{
		provider: provider,
		registry: registry,
		recorder: recorder,
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// ProcessQuery runs one query to completion. history carries prior user and
// assistant messages of the session; the query is appended as a new user
// message. The returned error is reserved for context cancellation; engine
// failures come back as a structured Result with Success=false, and a turn
// that exceeds its deadline ends the session with a fallback response.
func (d *Driver) ProcessQuery(ctx context.Context, query string, history []llm.Message) (*Result, error) {
	sessionID := uuid.NewString()
	logger := d.logger.With("session_id", sessionID, "provider", d.provider.Name())

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: query, CreatedAt: time.Now()})

	result := &Result{ExecutedTools: []ToolLogEntry{}}
	var turn *llm.TurnResult

	current := stateRoundStart
	for current != stateDone && current != stateDoneFallback {
		switch current {
		case stateRoundStart:
			if result.Rounds >= d.opts.MaxRounds {
				logger.Warn("round cap reached without final text", "rounds", result.Rounds)
				result.Success = true
				result.Response = roundCapFallback
				current = stateDoneFallback
				continue
			}
			current = stateCallEngine

		case stateCallEngine:
			result.Rounds++
			var err error
			turn, err = d.callEngine(ctx, messages)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				if errors.Is(err, context.DeadlineExceeded) {
					logger.Warn("engine turn timed out", "round", result.Rounds, "timeout", d.opts.TurnTimeout)
					result.Success = true
					result.Response = turnTimeoutFallback
					current = stateDoneFallback
					continue
				}
				logger.Error("engine call failed", "round", result.Rounds, "error", err)
				result.Success = false
				result.Error = "the reasoning engine is unavailable; please try again later"
				current = stateDone
				continue
			}
			result.TokensUsed += turn.Usage.Total()

			switch {
			case len(turn.ToolCalls) > 0:
				current = stateExecuteTools
			case turn.Text != "":
				result.Success = true
				result.Response = turn.Text
				current = stateDone
			default:
				logger.Warn("engine turn carried neither text nor tool calls", "round", result.Rounds)
				result.Success = true
				result.Response = emptyTurnFallback
				current = stateDoneFallback
			}

		case stateExecuteTools:
			messages = append(messages, llm.Message{
				Role:      llm.RoleAssistant,
				Content:   turn.Text,
				ToolCalls: turn.ToolCalls,
				CreatedAt: time.Now(),
			})
			toolResults := d.registry.DispatchAll(ctx, turn.ToolCalls, d.opts.ToolTimeout)
			for i, tr := range toolResults {
				result.ExecutedTools = append(result.ExecutedTools, ToolLogEntry{
					Name:       tr.Name,
					DurationMs: tr.Duration.Milliseconds(),
					Success:    !tr.IsError,
				})
				d.recordToolExecution(ctx, sessionID, result.Rounds, turn.ToolCalls[i], tr)
				messages = append(messages, tr.Message())
			}
			current = stateRoundStart
		}
	}

	d.recordQuery(ctx, sessionID, query, result)
	logger.Info("query processed",
		"success", result.Success,
		"rounds", result.Rounds,
		"tools", len(result.ExecutedTools),
		"tokens", result.TokensUsed)
	return result, nil
}

func (d *Driver) callEngine(ctx context.Context, messages []llm.Message) (*llm.TurnResult, error) {
	turnCtx, cancel := context.WithTimeout(ctx, d.opts.TurnTimeout)
	defer cancel()
	return d.provider.SendTurn(turnCtx, &llm.TurnRequest{
		System:      d.opts.SystemPrompt,
		Messages:    messages,
		Tools:       d.registry.Specs(),
		Temperature: d.opts.Temperature,
		MaxTokens:   d.opts.MaxTokens,
	})
}

func (d *Driver) recordToolExecution(ctx context.Context, sessionID string, round int, call llm.ToolCall, tr dispatch.ToolResult) {
	if d.recorder == nil {
		return
	}
	err := d.recorder.RecordToolExecution(ctx, sessionID, ToolExecution{
		Round:      round,
		Name:       tr.Name,
		Input:      call.Arguments,
		Output:     tr.Content,
		IsError:    tr.IsError,
		DurationMs: tr.Duration.Milliseconds(),
	})
	if err != nil {
		d.logger.Warn("failed to record tool execution", "tool", tr.Name, "error", err)
	}
}

func (d *Driver) recordQuery(ctx context.Context, sessionID, query string, result *Result) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.RecordQuery(ctx, sessionID, query, result); err != nil {
		d.logger.Warn("failed to record query", "error", err)
	}
}
