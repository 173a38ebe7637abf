package hashid

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/viant/hashid/codec"
	"github.com/viant/hashid/model"
	"github.com/viant/hashid/service/dao/record"
)

// Schema describes the table a behavior is attached to.
type Schema interface {
	PrimaryKey() string
}

// Behavior substitutes hashids for the primary key of one table. It is a
// query listener, a persist listener and a finder provider; attach it with
// table.AddBehavior. Configuration is fixed once New returns.
type Behavior struct {
	config     *Config
	defaults   *Config
	edits      []func(c *Config)
	primaryKey string
	field      string
	logger     *slog.Logger
	secrets    SecretLoader

	codecOnce sync.Once
	codec     *codec.Codec
	codecErr  error
}

// New creates a behavior for schema.
func New(schema Schema, opts ...Option) (*Behavior, error) {
	if schema == nil || schema.PrimaryKey() == "" {
		return nil, fmt.Errorf("hashid: schema with a primary key is required")
	}
	ret := &Behavior{
		config:     DefaultConfig(),
		primaryKey: schema.PrimaryKey(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.config = ret.config.Merge(ret.defaults)
	for _, edit := range ret.edits {
		edit(ret.config)
	}
	ret.edits = nil
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if err := ret.resolveSalt(context.Background()); err != nil {
		return nil, err
	}
	switch {
	case ret.config.Disabled:
		ret.field = ""
	case ret.config.Field == "":
		ret.field = ret.primaryKey
	default:
		ret.field = ret.config.Field
	}
	return ret, nil
}

func (b *Behavior) edit(fn func(c *Config)) {
	b.edits = append(b.edits, fn)
}

// Config returns a copy of the effective configuration.
func (b *Behavior) Config() *Config {
	return b.config.Clone()
}

// Field returns the target field, empty when disabled.
func (b *Behavior) Field() string {
	return b.field
}

// PrimaryKey returns the primary key field.
func (b *Behavior) PrimaryKey() string {
	return b.primaryKey
}

// Codec returns the codec, built on first use.
func (b *Behavior) Codec() (*codec.Codec, error) {
	b.codecOnce.Do(func() {
		b.codec, b.codecErr = codec.New(b.config.codecConfig())
	})
	return b.codec, b.codecErr
}

// EncodeID returns the token of a real key.
func (b *Behavior) EncodeID(id int64) (string, error) {
	aCodec, err := b.Codec()
	if err != nil {
		return "", err
	}
	return aCodec.Encode(id)
}

// DecodeHashid returns the real key of token; malformed or foreign tokens
// report false.
func (b *Behavior) DecodeHashid(token string) (int64, bool) {
	aCodec, err := b.Codec()
	if err != nil {
		return 0, false
	}
	id, ok := aCodec.Decode(token)
	if !ok {
		b.logger.Debug("unable to decode hashid", "token", token)
	}
	return id, ok
}

// Encode writes the token of the record's persisted key into the target
// field without marking it dirty. It returns false when the field is
// disabled or the record has no key.
func (b *Behavior) Encode(r *model.Record) bool {
	if b.field == "" || r == nil {
		return false
	}
	id, ok := record.Key(r.Original(b.primaryKey))
	if !ok {
		return false
	}
	token, err := b.EncodeID(id)
	if err != nil {
		b.logger.Warn("unable to encode hashid", "id", id, "error", err)
		return false
	}
	r.SetClean(b.field, token)
	return true
}
