package scheduler

import "github.com/viant/taskos/policy"

// Option configures the scheduler.
type Option func(*Service)

// WithPolicy sets the dispatch policy.
func WithPolicy(config policy.Config) Option {
	return func(s *Service) {
		s.policy = config
	}
}

// WithMode sets the dispatch mode only.
func WithMode(mode string) Option {
	return func(s *Service) {
		s.policy.Mode = mode
	}
}
