// Package idgen wraps the UUID generator used to correlate queries and
// lifecycle events so that it can be stubbed in tests.
package idgen
