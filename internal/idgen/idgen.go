package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique identifier. Override in tests for
// deterministic query and event ids.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }
