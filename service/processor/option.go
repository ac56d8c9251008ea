package processor

import (
	"time"

	"github.com/viant/taskos/progress"
)

// Option configures the processor.
type Option func(*Service)

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithTimeSlice enables the time slice check used by Preempt.
func WithTimeSlice(slice time.Duration) Option {
	return func(s *Service) {
		s.config.TimeSlice = slice
	}
}

// WithProgress sets the counters tracker.
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}
