package storage

import (
	"context"

	"github.com/mpiekarski/plantiq/src/orchestrator"
)

// Recorder adapts the audit database to the conversation driver's Recorder
// contract.
type Recorder struct {
	db *DB
}

func NewRecorder(db *DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) RecordQuery(ctx context.Context, sessionID, query string, result *orchestrator.Result) error {
	if err := EnsureSession(ctx, r.db.DB(), sessionID); err != nil {
		return err
	}
	return InsertQuery(ctx, r.db.DB(), &QueryRecord{
		SessionID:  sessionID,
		Question:   query,
		Response:   result.Response,
		Error:      result.Error,
		Success:    result.Success,
		Rounds:     result.Rounds,
		TokensUsed: result.TokensUsed,
	})
}

func (r *Recorder) RecordToolExecution(ctx context.Context, sessionID string, exec orchestrator.ToolExecution) error {
	if err := EnsureSession(ctx, r.db.DB(), sessionID); err != nil {
		return err
	}
	return InsertToolExecution(ctx, r.db.DB(), &ToolExecutionRecord{
		SessionID:  sessionID,
		Round:      exec.Round,
		ToolName:   exec.Name,
		Input:      string(exec.Input),
		Output:     string(exec.Output),
		IsError:    exec.IsError,
		DurationMs: exec.DurationMs,
	})
}
