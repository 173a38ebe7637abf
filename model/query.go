package model

import "strings"

// Reduction controls how a result set is narrowed after formatting.
type Reduction int

const (
	// ReduceNone keeps every row.
	ReduceNone Reduction = iota
	// ReduceFirst keeps the first row, an empty result is not an error.
	ReduceFirst
	// ReduceFirstOrFail keeps the first row and fails when there is none.
	ReduceFirstOrFail
)

// Formatter post-processes a single result row.
type Formatter func(record *Record) *Record

// Finder customises a query; finders are registered by name on a table.
type Finder func(query *Query, options Options) (*Query, error)

type namedFormatter struct {
	key string
	fn  Formatter
}

// Query describes a read: predicates, associations to load and how to post
// process results.
type Query struct {
	ID         string
	Table      string
	where      Predicate
	primary    bool
	contain    []string
	formatters []*namedFormatter
	finders    []string
	reduction  Reduction
	limit      int
	prepared   bool
}

// NewQuery creates a primary query for the table.
func NewQuery(table string) *Query {
	return &Query{Table: table, primary: true}
}

// Where returns the predicate tree, nil matches everything.
func (q *Query) Where() Predicate {
	return q.where
}

// SetWhere replaces the predicate tree.
func (q *Query) SetWhere(p Predicate) *Query {
	q.where = p
	return q
}

// AndWhere adds a predicate with AND.
func (q *Query) AndWhere(p Predicate) *Query {
	q.where = And(q.where, p)
	return q
}

// Primary reports whether the query is the top level caller query rather
// than an association load.
func (q *Query) Primary() bool {
	return q.primary
}

// SetPrimary flags the query as primary or association query.
func (q *Query) SetPrimary(primary bool) *Query {
	q.primary = primary
	return q
}

// Contain requests associations to be loaded with the results.
func (q *Query) Contain(associations ...string) *Query {
	q.contain = append(q.contain, associations...)
	return q
}

// Contains returns requested associations.
func (q *Query) Contains() []string {
	return q.contain
}

// FormatResults registers a row formatter under key. Registering the same key
// again replaces the earlier formatter in place.
func (q *Query) FormatResults(key string, fn Formatter) *Query {
	for _, candidate := range q.formatters {
		if candidate.key == key {
			candidate.fn = fn
			return q
		}
	}
	q.formatters = append(q.formatters, &namedFormatter{key: key, fn: fn})
	return q
}

// HasFormatter reports whether a formatter was registered under key.
func (q *Query) HasFormatter(key string) bool {
	for _, candidate := range q.formatters {
		if candidate.key == key {
			return true
		}
	}
	return false
}

// Format applies formatters to every row in registration order.
func (q *Query) Format(records []*Record) []*Record {
	if len(q.formatters) == 0 {
		return records
	}
	ret := make([]*Record, 0, len(records))
	for _, record := range records {
		for _, formatter := range q.formatters {
			record = formatter.fn(record)
		}
		ret = append(ret, record)
	}
	return ret
}

// Traverse rewrites the predicate tree with v.
func (q *Query) Traverse(v Visitor) *Query {
	q.where = Walk(q.where, v)
	return q
}

// Reduce sets the result reduction.
func (q *Query) Reduce(reduction Reduction) *Query {
	q.reduction = reduction
	return q
}

// Reduction returns the result reduction.
func (q *Query) Reduction() Reduction {
	return q.reduction
}

// Limit caps the number of rows fetched, 0 means no limit.
func (q *Query) Limit(limit int) *Query {
	q.limit = limit
	return q
}

// LimitValue returns the row cap.
func (q *Query) LimitValue() int {
	return q.limit
}

// MarkFinder records that a named finder was applied.
func (q *Query) MarkFinder(name string) {
	if !q.HasFinder(name) {
		q.finders = append(q.finders, name)
	}
}

// HasFinder reports whether a named finder was applied.
func (q *Query) HasFinder(name string) bool {
	for _, candidate := range q.finders {
		if candidate == name {
			return true
		}
	}
	return false
}

// Prepared reports whether before query listeners already ran.
func (q *Query) Prepared() bool {
	return q.prepared
}

// MarkPrepared flags before query listeners as done.
func (q *Query) MarkPrepared() {
	q.prepared = true
}

func (q *Query) String() string {
	builder := strings.Builder{}
	builder.WriteString("FROM ")
	builder.WriteString(q.Table)
	if q.where != nil {
		builder.WriteString(" WHERE ")
		builder.WriteString(q.where.String())
	}
	return builder.String()
}
