package syscall

import (
	"io"
	"time"

	"github.com/viant/taskos/progress"
	"github.com/viant/taskos/service/event"
)

// Option configures the syscall service.
type Option func(*Service)

// WithConsole sets the writer behind standard output.
func WithConsole(console io.Writer) Option {
	return func(s *Service) {
		s.console = console
	}
}

// WithBootTime sets the instant get_time and task_info count from.
func WithBootTime(bootTime time.Time) Option {
	return func(s *Service) {
		s.bootTime = bootTime
	}
}

// WithProgress sets the counters tracker.
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}

// WithEventService publishes the halt event.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}
