// Package tracing wraps OpenTelemetry so that kernel services can open spans
// (one per served syscall) without importing the upstream packages. Until
// Init or InitWithExporter installs a provider every span is a no-op.
package tracing
