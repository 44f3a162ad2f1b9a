package storage

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// Session groups the queries and tool executions of one conversation.
type Session struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// QueryRecord is one processed query and its outcome.
type QueryRecord struct {
	ID         string    `json:"id" db:"id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	Question   string    `json:"question" db:"question"`
	Response   string    `json:"response" db:"response"`
	Error      string    `json:"error" db:"error"`
	Success    bool      `json:"success" db:"success"`
	Rounds     int       `json:"rounds" db:"rounds"`
	TokensUsed int       `json:"tokens_used" db:"tokens_used"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ToolExecutionRecord is one dispatched tool call.
type ToolExecutionRecord struct {
	ID         string    `json:"id" db:"id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	Round      int       `json:"round" db:"round"`
	ToolName   string    `json:"tool_name" db:"tool_name"`
	Input      string    `json:"input" db:"input"`
	Output     string    `json:"output" db:"output"`
	IsError    bool      `json:"is_error" db:"is_error"`
	DurationMs int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// EnsureSession creates the session row if it does not exist and bumps its
// updated_at if it does.
func EnsureSession(ctx context.Context, db Execer, sessionID string) error {
	now := time.Now()
	query := `INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`
	_, err := db.ExecContext(ctx, query, sessionID, now, now)
	return err
}

// InsertQuery stores one query outcome.
func InsertQuery(ctx context.Context, db Execer, rec *QueryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query := `INSERT INTO queries (id, session_id, question, response, error, success, rounds, tokens_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		rec.ID, rec.SessionID, rec.Question, rec.Response, rec.Error,
		rec.Success, rec.Rounds, rec.TokensUsed, rec.CreatedAt)
	return err
}

// InsertToolExecution stores one dispatched call.
func InsertToolExecution(ctx context.Context, db Execer, rec *ToolExecutionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query := `INSERT INTO tool_executions (id, session_id, round, tool_name, input, output, is_error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		rec.ID, rec.SessionID, rec.Round, rec.ToolName, rec.Input, rec.Output,
		rec.IsError, rec.DurationMs, rec.CreatedAt)
	return err
}

// ListRecentQueries returns the newest queries first.
func ListRecentQueries(ctx context.Context, db sqlscan.Querier, limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, session_id, question, response, error, success, rounds, tokens_used, created_at
		FROM queries ORDER BY created_at DESC, id DESC LIMIT ?`
	var out []QueryRecord
	if err := sqlscan.Select(ctx, db, &out, query, limit); err != nil {
		return nil, err
	}
	return out, nil
}

// ListToolExecutions returns a session's dispatched calls in execution order.
func ListToolExecutions(ctx context.Context, db sqlscan.Querier, sessionID string) ([]ToolExecutionRecord, error) {
	query := `SELECT id, session_id, round, tool_name, input, output, is_error, duration_ms, created_at
		FROM tool_executions WHERE session_id = ? ORDER BY created_at, id`
	var out []ToolExecutionRecord
	if err := sqlscan.Select(ctx, db, &out, query, sessionID); err != nil {
		return nil, err
	}
	return out, nil
}
