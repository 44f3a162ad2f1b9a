package docstore

import (
	"context"
)

// Store is the document database boundary consumed by the tool handlers.
// It is read-mostly; Apply backs the single mutating tool.
type Store interface {
	// Get fetches one document by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Select runs a validated query and returns decoded documents (timestamp
	// sentinels already rewritten to ISO strings).
	Select(ctx context.Context, q Query) ([]Document, error)

	// Put writes a whole document. RFC3339 strings in declared timestamp
	// fields are converted to sentinel form.
	Put(ctx context.Context, collection, id string, doc Document) error

	// Apply runs a transactional read-modify-write of one document. The
	// mutate callback receives the decoded document and returns the
	// replacement; returning an error aborts without writing.
	Apply(ctx context.Context, collection, id string, mutate func(Document) (Document, error)) (Document, error)
}
