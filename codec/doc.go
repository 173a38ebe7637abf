// Package codec wraps a secret keyed, reversible integer to string transform
// (hashids) behind a small API used to turn store assigned primary keys into
// opaque tokens and back.
//
// A Codec is immutable once constructed and can be shared by concurrent
// callers.
package codec
