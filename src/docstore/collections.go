package docstore

// Collection describes a collection's query capabilities: which fields hold
// store-native timestamps and which (equality, range) field pairs have a
// composite index declared. A server-side query may only combine an equality
// filter with a range filter on a different field when that pair is listed.
type Collection struct {
	Name             string
	TimestampFields  []string
	CompositeIndexes [][2]string
}

// Collection names used across the tool handlers.
const (
	CollectionOrders    = "orders"
	CollectionPurchases = "purchases"
	CollectionMaterials = "materials"
	CollectionUsers     = "users"
)

var collections = map[string]*Collection{
	CollectionOrders: {
		Name:            CollectionOrders,
		TimestampFields: []string{"dueDate", "createdAt"},
		// status+dueDate is the one combination the dashboard already needed,
		// so its index exists and the planner may use it.
		CompositeIndexes: [][2]string{{"status", "dueDate"}},
	},
	CollectionPurchases: {
		Name:            CollectionPurchases,
		TimestampFields: []string{"orderedAt"},
	},
	CollectionMaterials: {
		Name: CollectionMaterials,
	},
	CollectionUsers: {
		Name: CollectionUsers,
	},
}

// Lookup returns the collection descriptor, or nil for unknown names.
func Lookup(name string) *Collection {
	return collections[name]
}

// HasCompositeIndex reports whether an equality filter on eqField may be
// combined server-side with a range filter on rangeField.
func (c *Collection) HasCompositeIndex(eqField, rangeField string) bool {
	if c == nil {
		return false
	}
	for _, pair := range c.CompositeIndexes {
		if pair[0] == eqField && pair[1] == rangeField {
			return true
		}
	}
	return false
}

// IsTimestampField reports whether the field is stored in sentinel form.
func (c *Collection) IsTimestampField(field string) bool {
	if c == nil {
		return false
	}
	for _, f := range c.TimestampFields {
		if f == field {
			return true
		}
	}
	return false
}
