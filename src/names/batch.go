package names

import (
	"context"

	"github.com/mpiekarski/plantiq/src/docstore"
)

// Batch is a single-shot, call-scoped name cache: collect every id in a
// result set, resolve once, then substitute. Batches are never shared
// between concurrent tool calls.
type Batch struct {
	resolver Resolver
	pending  map[string]struct{}
	resolved map[string]string
}

// NewBatch creates an unresolved batch over the given resolver.
func NewBatch(resolver Resolver) *Batch {
	return &Batch{resolver: resolver, pending: make(map[string]struct{})}
}

// Add records ids for the bulk lookup. No-op after Resolve.
func (b *Batch) Add(ids ...string) {
	if b.resolved != nil {
		return
	}
	for _, id := range ids {
		if id != "" {
			b.pending[id] = struct{}{}
		}
	}
}

// Resolve performs the single bulk lookup. Safe to call once; repeat calls
// reuse the first result.
func (b *Batch) Resolve(ctx context.Context) {
	if b.resolved != nil {
		return
	}
	ids := make([]string, 0, len(b.pending))
	for id := range b.pending {
		ids = append(ids, id)
	}
	b.resolved = b.resolver.ResolveNames(ctx, ids)
}

// Name returns the display name for id, or the id itself when unresolved.
func (b *Batch) Name(id string) string {
	if name, ok := b.resolved[id]; ok {
		return name
	}
	return id
}

// SubstituteField resolves every value of srcField across docs in one bulk
// call and writes the display name into dstField.
func SubstituteField(ctx context.Context, resolver Resolver, docs []docstore.Document, srcField, dstField string) {
	batch := NewBatch(resolver)
	for _, doc := range docs {
		batch.Add(doc.String(srcField))
	}
	batch.Resolve(ctx)
	for _, doc := range docs {
		if id := doc.String(srcField); id != "" {
			doc[dstField] = batch.Name(id)
		}
	}
}
