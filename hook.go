package hashid

import (
	"context"

	"github.com/viant/hashid/model"
	"github.com/viant/hashid/service/event"
	"github.com/viant/hashid/tracing"
	"github.com/viant/toolbox"
)

// OnBeforeQuery installs the token formatter on every primary query (and on
// association queries when recursive). When tokens live in the primary key
// field, literals compared with the primary key are decoded into real keys.
func (b *Behavior) OnBeforeQuery(ctx context.Context, e *event.Event[*event.BeforeQuery]) (err error) {
	data := e.Data
	if data == nil || data.Query == nil {
		return nil
	}
	if !data.Primary && !b.config.Recursive {
		return nil
	}
	ctx, span := tracing.StartSpan(ctx, "hashid.prepare", "INTERNAL")
	span.WithAttributes(map[string]string{"table": tableName(e.Context), "field": b.field})
	defer func() { tracing.EndSpan(span, err) }()

	query := data.Query
	if _, err = b.FindHashed(query, model.Options{NoFirst: true}); err != nil {
		return err
	}
	query.MarkFinder(b.config.FinderName)
	if b.field != "" && b.field == b.primaryKey {
		query.Traverse(&model.FieldRewriter{Field: b.primaryKey, Rewrite: b.resolve})
	}
	b.logger.DebugContext(ctx, "prepared hashid query", "table", tableName(e.Context), "query", query.String())
	return nil
}

// OnAfterPersist writes the token of a newly created record.
func (b *Behavior) OnAfterPersist(ctx context.Context, e *event.Event[*event.AfterPersist]) error {
	data := e.Data
	if data == nil || !data.Created {
		return nil
	}
	if b.Encode(data.Record) {
		b.logger.DebugContext(ctx, "encoded created record", "table", tableName(e.Context), "field", b.field)
	}
	return nil
}

// resolve maps a token literal to its real key or to model.NoMatch.
func (b *Behavior) resolve(value interface{}) interface{} {
	switch value.(type) {
	case decodedKey:
		return value
	case nil:
		return nil
	}
	if value == model.NoMatch {
		return value
	}
	if id, ok := b.DecodeHashid(toolbox.AsString(value)); ok {
		return decodedKey(id)
	}
	return model.NoMatch
}

func tableName(aContext *event.Context) string {
	if aContext == nil {
		return ""
	}
	return aContext.Table
}
