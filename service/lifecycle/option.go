package lifecycle

import (
	"github.com/viant/taskos/policy"
	"github.com/viant/taskos/progress"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/dao"
	"github.com/viant/taskos/service/event"
	"github.com/viant/taskos/service/mm"
)

// Option configures the lifecycle service.
type Option func(*Service)

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithPolicy sets the stride constants applied to new tasks.
func WithPolicy(config policy.Config) Option {
	return func(s *Service) {
		s.policy = config
	}
}

// WithBuilder sets the address space builder.
func WithBuilder(builder mm.Builder) Option {
	return func(s *Service) {
		s.builder = builder
	}
}

// WithTable sets the process table.
func WithTable(table dao.Service[int, task.ControlBlock]) Option {
	return func(s *Service) {
		s.table = table
	}
}

// WithJournal records a task snapshot on every transition.
func WithJournal(journal dao.Service[int, task.Info]) Option {
	return func(s *Service) {
		s.journal = journal
	}
}

// WithEventService publishes lifecycle events.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithProgress sets the counters tracker.
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}
