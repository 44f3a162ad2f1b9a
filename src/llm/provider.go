package llm

import (
	"context"
	"fmt"
)

// ReasoningProvider abstracts a remote reasoning engine. Implementations are
// thin protocol adapters: they marshal one turn out and one TurnResult back,
// and carry no round-loop or dispatch logic.
type ReasoningProvider interface {
	// Name identifies the provider ("anthropic", "openai").
	Name() string

	// SendTurn sends the accumulated history plus tool catalog and returns the
	// engine's turn. Transport, auth, and quota failures are returned as
	// *ProviderError and are fatal for the session.
	SendTurn(ctx context.Context, req *TurnRequest) (*TurnResult, error)
}

// ProviderError is a failure at the reasoning-engine boundary (network, auth,
// rate limiting). The driver aborts the session on it, without retrying.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapProviderError tags err as fatal for the session. Returns nil for nil.
func WrapProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}
