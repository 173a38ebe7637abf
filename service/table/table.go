package table

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/hashid/internal/idgen"
	"github.com/viant/hashid/model"
	"github.com/viant/hashid/service/dao"
	"github.com/viant/hashid/service/dao/criteria"
	"github.com/viant/hashid/service/dao/record"
	"github.com/viant/hashid/service/event"
	"github.com/viant/hashid/tracing"
)

// FinderAll is the default finder; it leaves the query unchanged.
const FinderAll = "all"

// FinderProvider is implemented by behaviors contributing named finders.
type FinderProvider interface {
	Finders() map[string]model.Finder
}

type association struct {
	name       string
	target     *Table
	foreignKey string
}

// Table runs the find and save pipeline over a record store and notifies the
// attached behaviors at each lifecycle step.
type Table struct {
	name             string
	store            dao.RecordStore
	queryListeners   []event.QueryListener
	persistListeners []event.PersistListener
	finders          map[string]model.Finder
	associations     map[string]*association
	logger           *slog.Logger
	pending          []interface{}
}

// New creates a table over store.
func New(name string, store dao.RecordStore, opts ...Option) (*Table, error) {
	ret := &Table{
		name:         name,
		store:        store,
		finders:      map[string]model.Finder{},
		associations: map[string]*association{},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	for _, behavior := range ret.pending {
		if err := ret.AddBehavior(behavior); err != nil {
			return nil, err
		}
	}
	ret.pending = nil
	return ret, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// PrimaryKey returns the primary key field name.
func (t *Table) PrimaryKey() string {
	return t.store.PrimaryKey()
}

// Store returns the underlying record store.
func (t *Table) Store() dao.RecordStore {
	return t.store
}

// AddBehavior attaches a behavior. It must implement at least one of
// event.QueryListener, event.PersistListener or FinderProvider.
func (t *Table) AddBehavior(behavior interface{}) error {
	attached := false
	if listener, ok := behavior.(event.QueryListener); ok {
		t.queryListeners = append(t.queryListeners, listener)
		attached = true
	}
	if listener, ok := behavior.(event.PersistListener); ok {
		t.persistListeners = append(t.persistListeners, listener)
		attached = true
	}
	if provider, ok := behavior.(FinderProvider); ok {
		for name, finder := range provider.Finders() {
			if _, exists := t.finders[name]; exists {
				return fmt.Errorf("table %s: finder %q already registered", t.name, name)
			}
			t.finders[name] = finder
		}
		attached = true
	}
	if !attached {
		return fmt.Errorf("table %s: unsupported behavior %T", t.name, behavior)
	}
	return nil
}

// HasMany declares an association loaded with Query.Contain(name): target
// rows whose foreignKey holds the key of a result row.
func (t *Table) HasMany(name string, target *Table, foreignKey string) {
	t.associations[name] = &association{name: name, target: target, foreignKey: foreignKey}
}

// Query creates a new primary query.
func (t *Table) Query() *model.Query {
	ret := model.NewQuery(t.name)
	ret.ID = idgen.New()
	return ret
}

// Where creates a query filtered by a parsed expression, see criteria.Parse.
func (t *Table) Where(expr string) (*model.Query, error) {
	predicate, err := criteria.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("table %s: invalid filter: %w", t.name, err)
	}
	return t.Query().SetWhere(predicate), nil
}

// Find creates a query customised by the named finder.
func (t *Table) Find(name string, options model.Options) (*model.Query, error) {
	return t.ApplyFinder(t.Query(), name, options)
}

// ApplyFinder customises an existing query with the named finder.
func (t *Table) ApplyFinder(query *model.Query, name string, options model.Options) (*model.Query, error) {
	if name == "" || name == FinderAll {
		return query, nil
	}
	finder, ok := t.finders[name]
	if !ok {
		return nil, fmt.Errorf("table %s: unknown finder %q", t.name, name)
	}
	query.MarkFinder(name)
	return finder(query, options)
}

// All executes the query and returns formatted, reduced rows.
func (t *Table) All(ctx context.Context, query *model.Query) (records []*model.Record, err error) {
	ctx, span := tracing.StartSpan(ctx, "table.find", "INTERNAL")
	span.WithAttributes(map[string]string{"table": t.name, "query.id": query.ID})
	defer func() { tracing.EndSpan(span, err) }()

	if err = t.prepare(ctx, query); err != nil {
		return nil, err
	}
	t.logger.DebugContext(ctx, "executing query", "table", t.name, "query", query.String(), "primary", query.Primary())
	if records, err = t.store.Select(ctx, query.Where()); err != nil {
		return nil, fmt.Errorf("table %s: failed to select: %w", t.name, err)
	}
	if limit := query.LimitValue(); limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	if err = t.loadAssociations(ctx, query, records); err != nil {
		return nil, err
	}
	records = query.Format(records)

	switch query.Reduction() {
	case model.ReduceFirstOrFail:
		if len(records) == 0 {
			return nil, t.notFound(query)
		}
		records = records[:1]
	case model.ReduceFirst:
		if len(records) > 1 {
			records = records[:1]
		}
	}
	return records, nil
}

// First returns the first row or nil when nothing matched.
func (t *Table) First(ctx context.Context, query *model.Query) (*model.Record, error) {
	records, err := t.All(ctx, query)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// FirstOrFail returns the first row or a *dao.NotFoundError.
func (t *Table) FirstOrFail(ctx context.Context, query *model.Query) (*model.Record, error) {
	records, err := t.All(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, t.notFound(query)
	}
	return records[0], nil
}

// Get returns the row with the given primary key value.
func (t *Table) Get(ctx context.Context, id interface{}) (*model.Record, error) {
	query := t.Query().AndWhere(model.Eq(t.PrimaryKey(), id))
	return t.FirstOrFail(ctx, query)
}

// Save persists a record and notifies persist listeners; the record is
// committed (clean, not new) afterwards.
func (t *Table) Save(ctx context.Context, r *model.Record) (err error) {
	if r == nil {
		return dao.ErrNilEntity
	}
	ctx, span := tracing.StartSpan(ctx, "table.save", "INTERNAL")
	span.WithAttributes(map[string]string{"table": t.name})
	defer func() { tracing.EndSpan(span, err) }()

	created := r.IsNew()
	if err = t.store.Save(ctx, r); err != nil {
		return fmt.Errorf("table %s: failed to save: %w", t.name, err)
	}
	anEvent := event.NewEvent(&event.Context{ID: idgen.New(), Table: t.name, EventType: event.TypeAfterPersist},
		&event.AfterPersist{Record: r, Created: created})
	for _, listener := range t.persistListeners {
		if err = listener.OnAfterPersist(ctx, anEvent); err != nil {
			return fmt.Errorf("table %s: after persist: %w", t.name, err)
		}
	}
	r.Commit()
	return nil
}

// Delete removes the record addressed by its persisted primary key.
func (t *Table) Delete(ctx context.Context, r *model.Record) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	id, ok := record.Key(r.Original(t.PrimaryKey()))
	if !ok {
		return dao.ErrInvalidID
	}
	if err := t.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("table %s: failed to delete %d: %w", t.name, id, err)
	}
	return nil
}

func (t *Table) prepare(ctx context.Context, query *model.Query) error {
	if query.Prepared() {
		return nil
	}
	query.MarkPrepared()
	anEvent := event.NewEvent(&event.Context{ID: query.ID, Table: t.name, EventType: event.TypeBeforeQuery},
		&event.BeforeQuery{Query: query, Primary: query.Primary()})
	for _, listener := range t.queryListeners {
		if err := listener.OnBeforeQuery(ctx, anEvent); err != nil {
			return fmt.Errorf("table %s: before query: %w", t.name, err)
		}
	}
	return nil
}

func (t *Table) loadAssociations(ctx context.Context, query *model.Query, records []*model.Record) error {
	for _, name := range query.Contains() {
		anAssociation, ok := t.associations[name]
		if !ok {
			return fmt.Errorf("table %s: unknown association %q", t.name, name)
		}
		var keys []model.Predicate
		for _, r := range records {
			if id, ok := record.Key(r.Original(t.PrimaryKey())); ok {
				keys = append(keys, model.Eq(anAssociation.foreignKey, id))
			}
		}
		if len(keys) == 0 {
			for _, r := range records {
				r.SetRelated(name, nil)
			}
			continue
		}
		target := anAssociation.target
		related, err := target.All(ctx, target.Query().SetPrimary(false).SetWhere(model.Or(keys...)))
		if err != nil {
			return fmt.Errorf("table %s: failed to load %s: %w", t.name, name, err)
		}
		grouped := map[int64][]*model.Record{}
		for _, candidate := range related {
			if id, ok := record.Key(candidate.Original(anAssociation.foreignKey)); ok {
				grouped[id] = append(grouped[id], candidate)
			}
		}
		for _, r := range records {
			id, _ := record.Key(r.Original(t.PrimaryKey()))
			r.SetRelated(name, grouped[id])
		}
	}
	return nil
}

func (t *Table) notFound(query *model.Query) error {
	condition := ""
	if where := query.Where(); where != nil {
		condition = where.String()
	}
	return &dao.NotFoundError{Table: t.name, Criteria: condition}
}
