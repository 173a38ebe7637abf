package pebble

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/viant/hashid/model"
	"github.com/viant/hashid/service/dao"
	"github.com/viant/hashid/service/dao/criteria"
	"github.com/viant/hashid/service/dao/record"
)

// Store keeps rows of one table in a pebble key space: the key is the table
// prefix followed by the big-endian row key, so iteration follows key order.
type Store struct {
	db         *pebble.DB
	prefix     []byte
	primaryKey string
	mu         sync.Mutex
}

var _ dao.RecordStore = (*Store)(nil)

// PrimaryKey returns the primary key field name.
func (s *Store) PrimaryKey() string {
	return s.primaryKey
}

func (s *Store) key(id int64) []byte {
	result := make([]byte, 0, len(s.prefix)+8)
	result = append(result, s.prefix...)
	return binary.BigEndian.AppendUint64(result, uint64(id))
}

func (s *Store) upperBound() []byte {
	bound := make([]byte, len(s.prefix)+8)
	copy(bound, s.prefix)
	for i := len(s.prefix); i < len(bound); i++ {
		bound[i] = 0xff
	}
	return bound
}

// Save inserts new records under the next key or merges dirty fields of an
// existing row.
func (s *Store) Save(_ context.Context, r *model.Record) error {
	if r == nil {
		return dao.ErrNilEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.IsNew() {
		id, explicit := record.Key(r.Get(s.primaryKey))
		if explicit {
			if _, err := s.get(id); err == nil {
				return fmt.Errorf("duplicate key %d: %w", id, dao.ErrInvalidID)
			} else if !errors.Is(err, dao.ErrNotFound) {
				return err
			}
		} else {
			last, err := s.last()
			if err != nil {
				return err
			}
			id = last + 1
		}
		if err := s.put(id, record.Insert(r, s.primaryKey, id)); err != nil {
			return err
		}
		r.Assign(s.primaryKey, id)
		return nil
	}

	id, ok := record.Key(r.Original(s.primaryKey))
	if !ok {
		return dao.ErrInvalidID
	}
	existing, err := s.get(id)
	if err != nil {
		return err
	}
	return s.put(id, record.Merge(existing, r, s.primaryKey))
}

// Load retrieves a row by key.
func (s *Store) Load(_ context.Context, id int64) (*model.Record, error) {
	if id <= 0 {
		return nil, dao.ErrInvalidID
	}
	row, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return model.Hydrate(row), nil
}

// Delete removes a row.
func (s *Store) Delete(_ context.Context, id int64) error {
	if id <= 0 {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.get(id); err != nil {
		return err
	}
	if err := s.db.Delete(s.key(id), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete row %d: %w", id, err)
	}
	return nil
}

// List returns rows matching equality parameters.
func (s *Store) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Record, error) {
	return s.Select(ctx, criteria.FromParameters(parameters))
}

// Select scans the table key space and returns matching rows.
func (s *Store) Select(_ context.Context, where model.Predicate) ([]*model.Record, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: s.prefix,
		UpperBound: s.upperBound(),
	})
	if err != nil {
		return nil, err
	}
	defer func(iter *pebble.Iterator) {
		_ = iter.Close()
	}(iter)

	var out []*model.Record
	for iter.First(); iter.Valid(); iter.Next() {
		row, err := record.Unmarshal(iter.Value(), s.primaryKey)
		if err != nil {
			return nil, err
		}
		candidate := model.Hydrate(row)
		if criteria.Match(where, candidate) {
			out = append(out, candidate)
		}
	}
	return out, iter.Error()
}

func (s *Store) last() (int64, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: s.prefix,
		UpperBound: s.upperBound(),
	})
	if err != nil {
		return 0, err
	}
	defer func(iter *pebble.Iterator) {
		_ = iter.Close()
	}(iter)
	if !iter.Last() {
		return 0, iter.Error()
	}
	key := iter.Key()
	return int64(binary.BigEndian.Uint64(key[len(s.prefix):])), nil
}

func (s *Store) get(id int64) (map[string]interface{}, error) {
	value, closer, err := s.db.Get(s.key(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, dao.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	return record.Unmarshal(value, s.primaryKey)
}

func (s *Store) put(id int64, row map[string]interface{}) error {
	data, err := record.Marshal(row)
	if err != nil {
		return err
	}
	if err = s.db.Set(s.key(id), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to put row %d: %w", id, err)
	}
	return nil
}

// New creates a store for table over an open pebble database. Several tables
// may share one database; the table name is used as key prefix.
func New(db *pebble.DB, table, primaryKey string) *Store {
	prefix := make([]byte, 0, len(table)+1)
	prefix = append(prefix, table...)
	prefix = append(prefix, '/')
	return &Store{db: db, prefix: prefix, primaryKey: primaryKey}
}

// Open opens (or creates) a pebble database in dir.
func Open(dir string, options *pebble.Options) (*pebble.DB, error) {
	if options == nil {
		options = &pebble.Options{}
	}
	db, err := pebble.Open(dir, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble: %w", err)
	}
	return db, nil
}
