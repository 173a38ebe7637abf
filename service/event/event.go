package event

import (
	"time"

	"github.com/viant/hashid/internal/clock"
	"github.com/viant/hashid/model"
)

// Event types
const (
	TypeBeforeQuery  = "beforeQuery"
	TypeAfterPersist = "afterPersist"
)

type Context struct {
	ID        string `json:"id"`
	Table     string `json:"table"`
	EventType string `json:"eventType"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

// BeforeQuery is fired once before a query is executed. Listeners may
// rewrite the query in place.
type BeforeQuery struct {
	Query *model.Query
	// Primary is false for queries issued to load associated records.
	Primary bool
}

// AfterPersist is fired after a record was written.
type AfterPersist struct {
	Record *model.Record
	// Created is true only when the write inserted the record.
	Created bool
}
