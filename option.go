package hashid

import (
	"log/slog"
)

// Option customises a Behavior.
type Option func(b *Behavior)

// WithDefaults sets the base configuration, for example one returned by
// LoadConfig. The other options apply on top of it regardless of order, so
// they can also switch off booleans set by the base.
func WithDefaults(cfg *Config) Option {
	return func(b *Behavior) {
		b.defaults = cfg
	}
}

// WithSalt sets the codec salt.
func WithSalt(salt string) Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.Salt = salt
		})
	}
}

// WithSaltSecret loads the salt from a scy secret resource, key is the
// encryption key (e.g. blowfish://default).
func WithSaltSecret(URL, key string) Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.SaltURL = URL
			c.SaltKey = key
		})
	}
}

// WithField sets the field receiving tokens; empty means the primary key.
func WithField(field string) Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.Field = field
			c.Disabled = false
		})
	}
}

// WithoutField disables the target field: records are never transcoded.
func WithoutField() Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.Field = ""
			c.Disabled = true
		})
	}
}

// WithRecursive also transcodes records loaded through associations.
func WithRecursive(recursive bool) Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.Recursive = recursive
		})
	}
}

// WithFindFirst sets the hashed finder reduction.
func WithFindFirst(mode FirstMode) Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.FindFirst = mode
		})
	}
}

// WithFinderName sets the name the hashed finder is registered under.
func WithFinderName(name string) Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.FinderName = name
		})
	}
}

// WithAlphabet sets a custom token alphabet.
func WithAlphabet(alphabet string) Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.Alphabet = alphabet
		})
	}
}

// WithMinLength pads tokens to at least length characters.
func WithMinLength(length int) Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.MinLength = length
		})
	}
}

// WithDebug appends the real key to every token.
func WithDebug(debug bool) Option {
	return func(b *Behavior) {
		b.edit(func(c *Config) {
			c.Debug = debug
		})
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Behavior) {
		b.logger = logger
	}
}

// WithSecretService sets the secret loader used to resolve the salt.
func WithSecretService(loader SecretLoader) Option {
	return func(b *Behavior) {
		b.secrets = loader
	}
}
