// Package names resolves foreign-key ids (users, materials) to display
// names in bulk, best effort: an id that cannot be resolved stays an id.
package names

import (
	"context"
	"log/slog"

	"github.com/mpiekarski/plantiq/src/docstore"
)

// Resolver batch-resolves ids to display names. The returned map always has
// one entry per requested id; unresolvable ids map to themselves.
type Resolver interface {
	ResolveNames(ctx context.Context, ids []string) map[string]string
}

// StoreResolver resolves against one collection's name field using in-list
// queries chunked to the store's in-list cap.
type StoreResolver struct {
	store      docstore.Store
	collection string
	nameField  string
	logger     *slog.Logger
}

// NewUserResolver resolves user ids to display names.
func NewUserResolver(store docstore.Store, logger *slog.Logger) *StoreResolver {
	return &StoreResolver{store: store, collection: docstore.CollectionUsers, nameField: "displayName", logger: logger}
}

// NewMaterialResolver resolves material ids to material names.
func NewMaterialResolver(store docstore.Store, logger *slog.Logger) *StoreResolver {
	return &StoreResolver{store: store, collection: docstore.CollectionMaterials, nameField: "name", logger: logger}
}

func (r *StoreResolver) ResolveNames(ctx context.Context, ids []string) map[string]string {
	out := make(map[string]string, len(ids))
	var unique []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = id // fallback until resolved
		unique = append(unique, id)
	}

	for start := 0; start < len(unique); start += docstore.MaxInValues {
		end := start + docstore.MaxInValues
		if end > len(unique) {
			end = len(unique)
		}
		chunk := make([]any, 0, end-start)
		for _, id := range unique[start:end] {
			chunk = append(chunk, id)
		}

		docs, err := r.store.Select(ctx, docstore.Query{
			Collection: r.collection,
			Filters:    []docstore.Filter{docstore.In("id", chunk)},
		})
		if err != nil {
			// Lookup failure keeps the id fallbacks; never fails the call.
			r.logger.Warn("name resolution lookup failed",
				"collection", r.collection, "ids", len(chunk), "error", err)
			continue
		}
		for _, doc := range docs {
			if name := doc.String(r.nameField); name != "" {
				out[doc.ID()] = name
			}
		}
	}
	return out
}
