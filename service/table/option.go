package table

import (
	"log/slog"

	"github.com/viant/hashid/model"
)

type Option func(t *Table)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}

// WithFinder registers a named finder
func WithFinder(name string, finder model.Finder) Option {
	return func(t *Table) {
		t.finders[name] = finder
	}
}

// WithBehaviors attaches behaviors; see Table.AddBehavior
func WithBehaviors(behaviors ...interface{}) Option {
	return func(t *Table) {
		t.pending = append(t.pending, behaviors...)
	}
}
