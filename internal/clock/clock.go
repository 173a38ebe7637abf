// Package clock supplies lifecycle event timestamps.
package clock

import "time"

// NowFunc returns the current UTC time. Override in tests for determinism.
var NowFunc = func() time.Time { return time.Now().UTC() }

// Now returns NowFunc().
func Now() time.Time { return NowFunc() }
