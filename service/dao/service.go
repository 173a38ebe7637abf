package dao

import (
	"context"

	"github.com/viant/hashid/model"
)

type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}

// RecordStore persists schemaless records keyed by a store assigned integer.
//
// Save inserts records flagged new, assigning the next key to the primary key
// field, and otherwise writes only dirty fields of the row addressed by the
// record's original primary key.
type RecordStore interface {
	Service[int64, model.Record]

	// PrimaryKey returns the primary key field name.
	PrimaryKey() string

	// Select returns rows matching the predicate; nil matches every row.
	// Rows are ordered by primary key.
	Select(ctx context.Context, where model.Predicate) ([]*model.Record, error)
}
