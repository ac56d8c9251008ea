package loader

import (
	"github.com/viant/taskos/service/meta"
	"github.com/viant/taskos/user"
)

// Option configures the loader.
type Option func(*Service)

// WithMetaService sets the service used to read manifests and image data.
func WithMetaService(metaService *meta.Service) Option {
	return func(s *Service) {
		s.metaService = metaService
	}
}

// WithProgram registers an entry point that manifests can refer to.
func WithProgram(name string, entry user.Program) Option {
	return func(s *Service) {
		s.programs[name] = entry
	}
}
