package taskos

import (
	"io"

	"github.com/viant/taskos/progress"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/dao"
	"github.com/viant/taskos/service/event"
	"github.com/viant/taskos/service/loader"
	"github.com/viant/taskos/service/mm"
	"github.com/viant/taskos/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures the kernel.
type Option func(k *Kernel)

// WithConfig sets the kernel configuration.
func WithConfig(config *Config) Option {
	return func(k *Kernel) {
		k.config = config
	}
}

// WithLoader sets the application table.
func WithLoader(apps *loader.Service) Option {
	return func(k *Kernel) {
		k.loader = apps
	}
}

// WithConsole sets the writer behind the stdout file descriptor.
func WithConsole(console io.Writer) Option {
	return func(k *Kernel) {
		k.console = console
	}
}

// WithEventService publishes task lifecycle events to service.
func WithEventService(service *event.Service) Option {
	return func(k *Kernel) {
		k.events = service
	}
}

// WithJournal records every task state change in journal.
func WithJournal(journal dao.Service[int, task.Info]) Option {
	return func(k *Kernel) {
		k.journal = journal
	}
}

// WithAddressSpaceBuilder replaces the in-memory address space builder.
func WithAddressSpaceBuilder(builder mm.Builder) Option {
	return func(k *Kernel) {
		k.builder = builder
	}
}

// WithProgressListener is called with a counters snapshot on every change.
func WithProgressListener(listener func(progress.Progress)) Option {
	return func(k *Kernel) {
		k.onProgress = listener
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(k *Kernel) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(k *Kernel) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
