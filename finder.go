package hashid

import (
	"github.com/viant/hashid/model"
)

const (
	// HID is the finder option holding the token to look up.
	HID = "hid"
	// NoFirst suppresses the configured findFirst reduction.
	NoFirst = "noFirst"
)

const formatterKey = "hashid"

// decodedKey marks a literal already resolved from a token so that it is not
// decoded twice.
type decodedKey int64

// Lookup returns finder options selecting the record identified by token.
func Lookup(token string) model.Options {
	return model.Options{HID: token}
}

// LookupAll is Lookup without the findFirst reduction.
func LookupAll(token string) model.Options {
	return model.Options{HID: token, NoFirst: true}
}

// Finders returns the hashed finder under the configured name.
func (b *Behavior) Finders() map[string]model.Finder {
	return map[string]model.Finder{b.config.FinderName: b.FindHashed}
}

// FindHashed makes the query return tokens in the target field and, with
// a non empty HID option, restricts it to the decoded key.
func (b *Behavior) FindHashed(query *model.Query, options model.Options) (*model.Query, error) {
	if b.field == "" {
		return query, nil
	}
	query.FormatResults(formatterKey, b.format)
	if token := options.String(HID); token != "" {
		query.AndWhere(model.Eq(b.primaryKey, b.resolve(token)))
	}
	if reduction := b.config.FindFirst.reduction(); reduction != model.ReduceNone && !options.Bool(NoFirst) {
		query.Reduce(reduction)
	}
	return query, nil
}

func (b *Behavior) format(r *model.Record) *model.Record {
	b.Encode(r)
	return r
}
