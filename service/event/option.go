package event

import (
	"github.com/viant/taskos/service/messaging/memory"
)

type Option func(s *Service)

// WithNewMemoryQueueConfig sets the memory queue configuration factory
func WithNewMemoryQueueConfig(newQueue func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newQueue
	}
}

// WithBootID stamps every event context with the boot identifier.
func WithBootID(bootID string) Option {
	return func(s *Service) {
		s.bootID = bootID
	}
}
