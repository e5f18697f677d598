package docstore

import (
	"context"
	"encoding/json"
)

// Filter restricts a query to documents whose field compares against the
// value. Op is one of ==, <, <=, >, >=.
type Filter struct {
	Field string
	Op    string
	Value string
}

type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Store is the contract against the external document database. The core only
// ever reads and writes whole documents by collection and id; transport and
// schema are the backend's concern.
type Store interface {
	Get(c context.Context, collection string, id string) (json.RawMessage, error)
	Put(c context.Context, collection string, id string, doc any) error
	Query(c context.Context, collection string, q Query) ([]json.RawMessage, error)
}
