package hashid

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/hashid/codec"
	"github.com/viant/hashid/internal/yml"
	"github.com/viant/hashid/model"
	"gopkg.in/yaml.v3"
)

// FinderName is the default name of the hashed lookup finder.
const FinderName = "hashed"

// FirstMode controls whether the hashed finder reduces results to one record.
type FirstMode string

const (
	// FirstNone keeps every matching record.
	FirstNone FirstMode = ""
	// First returns the first match or nothing.
	First FirstMode = "first"
	// FirstOrFail returns the first match or a not found error.
	FirstOrFail FirstMode = "firstOrFail"
)

// UnmarshalYAML accepts true/false as well as the mode names.
func (m *FirstMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!bool" {
		*m = FirstNone
		if strings.EqualFold(node.Value, "true") {
			*m = First
		}
		return nil
	}
	mode, err := ParseFirstMode(node.Value)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ParseFirstMode parses a mode name; "true" is an alias of first.
func ParseFirstMode(value string) (FirstMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none", "false":
		return FirstNone, nil
	case "first", "true":
		return First, nil
	case "firstorfail":
		return FirstOrFail, nil
	}
	return FirstNone, fmt.Errorf("hashid: unsupported findFirst mode %q", value)
}

func (m FirstMode) reduction() model.Reduction {
	switch m {
	case First:
		return model.ReduceFirst
	case FirstOrFail:
		return model.ReduceFirstOrFail
	}
	return model.ReduceNone
}

// Config is a serialisable behavior configuration. It can be loaded from a
// YAML or JSON settings file (LoadConfig) and used as defaults for New.
type Config struct {
	// Salt is the codec key material; empty means the default, non secret codec.
	Salt string `json:"salt,omitempty" yaml:"salt,omitempty"`
	// SaltURL points to a scy secret holding the salt; SaltKey decrypts it.
	SaltURL   string `json:"saltURL,omitempty" yaml:"saltURL,omitempty"`
	SaltKey   string `json:"saltKey,omitempty" yaml:"saltKey,omitempty"`
	Alphabet  string `json:"alphabet,omitempty" yaml:"alphabet,omitempty"`
	MinLength int    `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	// Field carries the token; empty means the primary key field.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	// Disabled turns the target field off: no tokens are written anywhere.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	// Recursive also transcodes records loaded through associations.
	Recursive  bool      `json:"recursive,omitempty" yaml:"recursive,omitempty"`
	FindFirst  FirstMode `json:"findFirst,omitempty" yaml:"findFirst,omitempty"`
	FinderName string    `json:"finderName,omitempty" yaml:"finderName,omitempty"`
	// Debug appends the real key to tokens (token-key). Diagnostic use only.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		FinderName: FinderName,
	}
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	ret := *c
	return &ret
}

// Merge returns a copy of c overridden by the non zero fields of override.
// Booleans can only be switched on this way; use the behavior options to
// switch a merged boolean off.
func (c *Config) Merge(override *Config) *Config {
	ret := c.Clone()
	if override == nil {
		return ret
	}
	if override.Salt != "" {
		ret.Salt = override.Salt
	}
	if override.SaltURL != "" {
		ret.SaltURL = override.SaltURL
	}
	if override.SaltKey != "" {
		ret.SaltKey = override.SaltKey
	}
	if override.Alphabet != "" {
		ret.Alphabet = override.Alphabet
	}
	if override.MinLength != 0 {
		ret.MinLength = override.MinLength
	}
	if override.Field != "" {
		ret.Field = override.Field
	}
	if override.Disabled {
		ret.Disabled = true
	}
	if override.Recursive {
		ret.Recursive = true
	}
	if override.FindFirst != FirstNone {
		ret.FindFirst = override.FindFirst
	}
	if override.FinderName != "" {
		ret.FinderName = override.FinderName
	}
	if override.Debug {
		ret.Debug = true
	}
	return ret
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.FinderName == "" {
		return fmt.Errorf("hashid: finderName must not be empty")
	}
	if _, err := ParseFirstMode(string(c.FindFirst)); err != nil {
		return err
	}
	if c.Salt != "" && c.SaltURL != "" {
		return fmt.Errorf("hashid: salt and saltURL are mutually exclusive")
	}
	return c.codecConfig().Validate()
}

func (c *Config) codecConfig() *codec.Config {
	return &codec.Config{
		Salt:      c.Salt,
		Alphabet:  c.Alphabet,
		MinLength: c.MinLength,
		Debug:     c.Debug,
	}
}

const configSection = "hashid"

// LoadConfig reads a YAML or JSON settings document from URL. The config may
// be the whole document or nested under a top level "hashid" key.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("hashid: failed to load config %s: %w", URL, err)
	}
	node, err := yml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("hashid: failed to parse config %s: %w", URL, err)
	}
	ret := &Config{}
	if err = node.DecodeSection(configSection, ret); err != nil {
		return nil, fmt.Errorf("hashid: failed to decode config %s: %w", URL, err)
	}
	return ret, nil
}
