package fs

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/hashid/model"
	"github.com/viant/hashid/service/dao"
	"github.com/viant/hashid/service/dao/criteria"
	"github.com/viant/hashid/service/dao/record"
)

const ext = ".json"

// Store implements a file based record store: every row is a JSON document
// named after its key under baseURL. Any afs backed location works
// (file://, mem://, gs://, s3://).
type Store struct {
	primaryKey string
	baseURL    string
	fs         afs.Service
	mu         sync.RWMutex
}

// Ensure Store implements dao.RecordStore
var _ dao.RecordStore = (*Store)(nil)

// PrimaryKey returns the primary key field name.
func (s *Store) PrimaryKey() string {
	return s.primaryKey
}

// Save persists a record, assigning the next key to new records.
func (s *Store) Save(ctx context.Context, r *model.Record) error {
	if r == nil {
		return dao.ErrNilEntity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.IsNew() {
		id, explicit := record.Key(r.Get(s.primaryKey))
		if explicit {
			exists, err := s.fs.Exists(ctx, s.rowURL(id))
			if err != nil {
				return fmt.Errorf("failed to check if row %d exists: %w", id, err)
			}
			if exists {
				return fmt.Errorf("duplicate key %d: %w", id, dao.ErrInvalidID)
			}
		} else {
			ids, err := s.ids(ctx)
			if err != nil {
				return err
			}
			id = 1
			if len(ids) > 0 {
				id = ids[len(ids)-1] + 1
			}
		}
		if err := s.write(ctx, id, record.Insert(r, s.primaryKey, id)); err != nil {
			return err
		}
		r.Assign(s.primaryKey, id)
		return nil
	}

	id, ok := record.Key(r.Original(s.primaryKey))
	if !ok {
		return dao.ErrInvalidID
	}
	existing, err := s.read(ctx, id)
	if err != nil {
		return err
	}
	return s.write(ctx, id, record.Merge(existing, r, s.primaryKey))
}

// Load retrieves a row from the filesystem
func (s *Store) Load(ctx context.Context, id int64) (*model.Record, error) {
	if id <= 0 {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	row, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.Hydrate(row), nil
}

// Delete removes a row file
func (s *Store) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rowURL := s.rowURL(id)
	exists, err := s.fs.Exists(ctx, rowURL)
	if err != nil {
		return fmt.Errorf("failed to check if row exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, rowURL); err != nil {
		return fmt.Errorf("failed to delete row file: %w", err)
	}
	return nil
}

// List returns rows matching equality parameters.
func (s *Store) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Record, error) {
	return s.Select(ctx, criteria.FromParameters(parameters))
}

// Select reads every row file and returns the matching ones ordered by key.
func (s *Store) Select(ctx context.Context, where model.Predicate) ([]*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := s.ids(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Record
	for _, id := range ids {
		row, err := s.read(ctx, id)
		if err != nil {
			return nil, err
		}
		candidate := model.Hydrate(row)
		if criteria.Match(where, candidate) {
			out = append(out, candidate)
		}
	}
	return out, nil
}

func (s *Store) ids(ctx context.Context) ([]int64, error) {
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows in %s: %w", s.baseURL, err)
	}
	var ids []int64
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ext) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(object.Name(), ext), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) read(ctx context.Context, id int64) (map[string]interface{}, error) {
	rowURL := s.rowURL(id)
	exists, err := s.fs.Exists(ctx, rowURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if row exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, rowURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read row file %s: %w", rowURL, err)
	}
	return record.Unmarshal(data, s.primaryKey)
}

func (s *Store) write(ctx context.Context, id int64, row map[string]interface{}) error {
	data, err := record.Marshal(row)
	if err != nil {
		return err
	}
	rowURL := s.rowURL(id)
	if err = s.fs.Upload(ctx, rowURL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save row to file %s: %w", rowURL, err)
	}
	return nil
}

func (s *Store) rowURL(id int64) string {
	return url.Join(s.baseURL, strconv.FormatInt(id, 10)+ext)
}

// New creates a filesystem record store rooted at baseURL.
func New(ctx context.Context, baseURL, primaryKey string) (*Store, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	fs := afs.New()

	// Ensure the base directory exists
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}

	return &Store{
		primaryKey: primaryKey,
		baseURL:    url.Normalize(baseURL, file.Scheme),
		fs:         fs,
	}, nil
}
