package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/speps/go-hashids/v2"
)

// Codec encodes integer keys into opaque tokens and decodes them back.
type Codec struct {
	hasher *hashids.HashID
	debug  bool
}

// New creates a codec for the supplied config. A nil config or an empty salt
// yields the default, non secret codec.
func New(cfg *Config) (*Codec, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hasher, err := hashids.NewWithData(cfg.data())
	if err != nil {
		return nil, fmt.Errorf("codec: failed to create hasher: %w", err)
	}
	return &Codec{hasher: hasher, debug: cfg.Debug}, nil
}

// Debug reports whether tokens carry the debug suffix.
func (c *Codec) Debug() bool {
	return c.debug
}

// Encode returns the token for id.
func (c *Codec) Encode(id int64) (string, error) {
	token, err := c.hasher.EncodeInt64([]int64{id})
	if err != nil {
		return "", fmt.Errorf("codec: failed to encode %d: %w", id, err)
	}
	if c.debug {
		token += DebugSeparator + strconv.FormatInt(id, 10)
	}
	return token, nil
}

// Decode returns the first key encoded in token. Malformed or foreign tokens
// report false.
func (c *Codec) Decode(token string) (int64, bool) {
	if c.debug {
		if index := strings.LastIndex(token, DebugSeparator); index != -1 {
			id, ok := c.decodeFirst(token[:index])
			if !ok || strconv.FormatInt(id, 10) != token[index+1:] {
				return 0, false
			}
			return id, true
		}
	}
	return c.decodeFirst(token)
}

// DecodeAll returns every key encoded in token, or nil when token does not
// resolve.
func (c *Codec) DecodeAll(token string) []int64 {
	if token == "" {
		return nil
	}
	ids, err := c.hasher.DecodeInt64WithError(token)
	if err != nil {
		return nil
	}
	return ids
}

func (c *Codec) decodeFirst(token string) (int64, bool) {
	ids := c.DecodeAll(token)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}
