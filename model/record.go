package model

import (
	"encoding/json"
	"sort"
)

// Record is a schemaless row with per field dirty tracking.
//
// Values assigned with Set are dirty until Commit; values assigned with
// SetClean are visible to callers but never reported as modified, so stores
// do not persist them.
type Record struct {
	values   map[string]interface{}
	original map[string]interface{}
	dirty    map[string]bool
	related  map[string][]*Record
	isNew    bool
}

// NewRecord creates a record that has not been persisted yet. Every supplied
// value is dirty.
func NewRecord(values map[string]interface{}) *Record {
	ret := &Record{
		values:   make(map[string]interface{}, len(values)),
		original: map[string]interface{}{},
		dirty:    make(map[string]bool, len(values)),
		isNew:    true,
	}
	for k, v := range values {
		ret.values[k] = v
		ret.dirty[k] = true
	}
	return ret
}

// Hydrate creates a clean record from persisted values.
func Hydrate(values map[string]interface{}) *Record {
	ret := &Record{
		values:   make(map[string]interface{}, len(values)),
		original: make(map[string]interface{}, len(values)),
		dirty:    map[string]bool{},
	}
	for k, v := range values {
		ret.values[k] = v
		ret.original[k] = v
	}
	return ret
}

// Get returns a field value or nil.
func (r *Record) Get(name string) interface{} {
	return r.values[name]
}

// Has reports whether the field is set.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Set assigns a value and marks the field dirty.
func (r *Record) Set(name string, value interface{}) {
	r.values[name] = value
	r.dirty[name] = true
}

// SetClean assigns a value without marking the field dirty. The persisted
// (original) value is left untouched.
func (r *Record) SetClean(name string, value interface{}) {
	r.values[name] = value
	delete(r.dirty, name)
}

// Assign sets a store assigned value: both current and original, clean.
func (r *Record) Assign(name string, value interface{}) {
	r.values[name] = value
	r.original[name] = value
	delete(r.dirty, name)
}

// Original returns the last persisted value of a field, falling back to the
// current value for fields that were never persisted.
func (r *Record) Original(name string) interface{} {
	if v, ok := r.original[name]; ok {
		return v
	}
	return r.values[name]
}

// IsDirty reports whether the field was modified since the last commit.
func (r *Record) IsDirty(name string) bool {
	return r.dirty[name]
}

// Dirty returns modified field names in lexical order.
func (r *Record) Dirty() []string {
	ret := make([]string, 0, len(r.dirty))
	for k := range r.dirty {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// IsNew reports whether the record has not been persisted yet.
func (r *Record) IsNew() bool {
	return r.isNew
}

// Commit records dirty values as persisted and clears dirty state.
func (r *Record) Commit() {
	for k := range r.dirty {
		r.original[k] = r.values[k]
	}
	r.dirty = map[string]bool{}
	r.isNew = false
}

// Values returns a copy of the current field values.
func (r *Record) Values() map[string]interface{} {
	ret := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		ret[k] = v
	}
	return ret
}

// Related returns records loaded for the named association.
func (r *Record) Related(name string) []*Record {
	return r.related[name]
}

// SetRelated attaches associated records.
func (r *Record) SetRelated(name string, records []*Record) {
	if r.related == nil {
		r.related = map[string][]*Record{}
	}
	r.related[name] = records
}

// Clone returns a deep copy of the record state; related records are cloned too.
func (r *Record) Clone() *Record {
	ret := &Record{
		values:   r.Values(),
		original: make(map[string]interface{}, len(r.original)),
		dirty:    make(map[string]bool, len(r.dirty)),
		isNew:    r.isNew,
	}
	for k, v := range r.original {
		ret.original[k] = v
	}
	for k, v := range r.dirty {
		ret.dirty[k] = v
	}
	for name, records := range r.related {
		cloned := make([]*Record, len(records))
		for i, record := range records {
			cloned[i] = record.Clone()
		}
		ret.SetRelated(name, cloned)
	}
	return ret
}

// MarshalJSON encodes current values with related records nested under their
// association name.
func (r *Record) MarshalJSON() ([]byte, error) {
	values := r.Values()
	for name, records := range r.related {
		values[name] = records
	}
	return json.Marshal(values)
}
