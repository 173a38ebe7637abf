// Package tracing wraps OpenTelemetry so that table execution and identifier
// encoding can open spans without importing the SDK directly. When no
// provider is installed spans are no-ops.
package tracing
