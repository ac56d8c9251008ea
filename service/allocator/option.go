package allocator

// Option customises an allocator instance.
type Option func(*Service)

// WithStart sets the first identifier issued by the counter.
func WithStart(start int) Option {
	return func(s *Service) {
		s.config.Start = start
	}
}

// WithLimit caps the number of identifiers that can be live at once.
func WithLimit(limit int) Option {
	return func(s *Service) {
		s.config.Limit = limit
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}
