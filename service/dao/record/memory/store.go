package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/hashid/model"
	"github.com/viant/hashid/service/dao"
	"github.com/viant/hashid/service/dao/criteria"
	"github.com/viant/hashid/service/dao/record"
)

// Store is an in-memory, thread-safe record store with auto-increment keys.
// Rows are copied in and out so callers never share state with the store.
type Store struct {
	primaryKey string
	rows       map[int64]map[string]interface{}
	sequence   int64
	mux        sync.RWMutex
}

// Compile-time check that Store implements the record store contract.
var _ dao.RecordStore = (*Store)(nil)

// PrimaryKey returns the primary key field name.
func (s *Store) PrimaryKey() string {
	return s.primaryKey
}

// Save inserts new records, assigning the next key, or merges dirty fields of
// an existing record.
func (s *Store) Save(_ context.Context, r *model.Record) error {
	if r == nil {
		return dao.ErrNilEntity
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if r.IsNew() {
		id, explicit := record.Key(r.Get(s.primaryKey))
		if explicit {
			if _, ok := s.rows[id]; ok {
				return fmt.Errorf("duplicate key %d: %w", id, dao.ErrInvalidID)
			}
		} else {
			id = s.sequence + 1
		}
		if id > s.sequence {
			s.sequence = id
		}
		s.rows[id] = record.Insert(r, s.primaryKey, id)
		r.Assign(s.primaryKey, id)
		return nil
	}

	id, ok := record.Key(r.Original(s.primaryKey))
	if !ok {
		return dao.ErrInvalidID
	}
	existing, ok := s.rows[id]
	if !ok {
		return dao.ErrNotFound
	}
	s.rows[id] = record.Merge(existing, r, s.primaryKey)
	return nil
}

// Load retrieves a copy of the row or dao.ErrNotFound.
func (s *Store) Load(_ context.Context, id int64) (*model.Record, error) {
	if id <= 0 {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	row, ok := s.rows[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return model.Hydrate(record.Copy(row)), nil
}

// Delete removes a row.
func (s *Store) Delete(_ context.Context, id int64) error {
	if id <= 0 {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.rows[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// List returns rows matching equality parameters.
func (s *Store) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Record, error) {
	return s.Select(ctx, criteria.FromParameters(parameters))
}

// Select returns copies of matching rows ordered by key.
func (s *Store) Select(_ context.Context, where model.Predicate) ([]*model.Record, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*model.Record
	for _, id := range ids {
		candidate := model.Hydrate(record.Copy(s.rows[id]))
		if criteria.Match(where, candidate) {
			out = append(out, candidate)
		}
	}
	return out, nil
}

// New creates an empty store keyed by primaryKey.
func New(primaryKey string) *Store {
	return &Store{primaryKey: primaryKey, rows: map[int64]map[string]interface{}{}}
}
