package codec

import (
	"fmt"
	"strings"

	"github.com/speps/go-hashids/v2"
)

const (
	// DebugSeparator separates a token from its real key in debug mode.
	DebugSeparator = "-"

	minAlphabetLength = 16
)

// Config defines codec key material and token shape.
type Config struct {
	Salt      string `json:"salt,omitempty" yaml:"salt,omitempty"`
	Alphabet  string `json:"alphabet,omitempty" yaml:"alphabet,omitempty"`
	MinLength int    `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	// Debug appends the real key to every token (token-key). Diagnostic use only.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// Validate checks settings that would make hashids construction fail.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.MinLength < 0 {
		return fmt.Errorf("codec: minLength must be >= 0, got %d", c.MinLength)
	}
	if c.Alphabet == "" {
		return nil
	}
	if len(c.Alphabet) < minAlphabetLength {
		return fmt.Errorf("codec: alphabet must contain at least %d characters", minAlphabetLength)
	}
	if strings.Contains(c.Alphabet, " ") {
		return fmt.Errorf("codec: alphabet must not contain spaces")
	}
	if c.Debug && strings.Contains(c.Alphabet, DebugSeparator) {
		return fmt.Errorf("codec: alphabet must not contain %q in debug mode", DebugSeparator)
	}
	return nil
}

func (c *Config) data() *hashids.HashIDData {
	data := hashids.NewData()
	data.Salt = c.Salt
	data.MinLength = c.MinLength
	if c.Alphabet != "" {
		data.Alphabet = c.Alphabet
	}
	return data
}
