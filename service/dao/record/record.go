// Package record holds helpers shared by record store implementations: key
// normalisation, insert/update row construction and the JSON row codec.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/viant/hashid/model"
	"github.com/viant/toolbox"
)

// Key converts a primary key value to int64. Zero, negative and non numeric
// values are not valid keys.
func Key(value interface{}) (int64, bool) {
	var key int64
	switch actual := value.(type) {
	case nil:
		return 0, false
	case int64:
		key = actual
	case int:
		key = int64(actual)
	case int32:
		key = int64(actual)
	case uint32:
		key = int64(actual)
	case uint64:
		key = int64(actual)
	case json.Number:
		i, err := actual.Int64()
		if err != nil {
			return 0, false
		}
		key = i
	default:
		i, err := toolbox.ToInt(actual)
		if err != nil {
			return 0, false
		}
		key = int64(i)
	}
	return key, key > 0
}

// Insert returns the row persisted for a new record under id.
func Insert(record *model.Record, primaryKey string, id int64) map[string]interface{} {
	row := record.Values()
	row[primaryKey] = id
	return row
}

// Merge returns existing updated with the record's dirty fields. The primary
// key is immutable and never taken from the record.
func Merge(existing map[string]interface{}, record *model.Record, primaryKey string) map[string]interface{} {
	row := make(map[string]interface{}, len(existing))
	for k, v := range existing {
		row[k] = v
	}
	for _, field := range record.Dirty() {
		if field == primaryKey {
			continue
		}
		row[field] = record.Get(field)
	}
	return row
}

// Copy returns a shallow copy of a row.
func Copy(row map[string]interface{}) map[string]interface{} {
	ret := make(map[string]interface{}, len(row))
	for k, v := range row {
		ret[k] = v
	}
	return ret
}

// Marshal encodes a row as JSON.
func Marshal(row map[string]interface{}) ([]byte, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal row: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON row. Integral numbers come back as int64 and the
// primary key is always int64.
func Unmarshal(data []byte, primaryKey string) (map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	row := map[string]interface{}{}
	if err := decoder.Decode(&row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal row: %w", err)
	}
	for k, v := range row {
		number, ok := v.(json.Number)
		if !ok {
			continue
		}
		if i, err := number.Int64(); err == nil {
			row[k] = i
			continue
		}
		if f, err := number.Float64(); err == nil {
			row[k] = f
		}
	}
	if id, ok := Key(row[primaryKey]); ok {
		row[primaryKey] = id
	}
	return row, nil
}
