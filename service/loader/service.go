package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/taskos/service/meta"
	"github.com/viant/taskos/user"
)

// ErrNotFound is returned when no image or program matches.
var ErrNotFound = errors.New("loader: not found")

// Service is the application table.
type Service struct {
	metaService *meta.Service
	programs    map[string]user.Program
	images      []*Image
	byName      map[string]*Image
}

// New creates an empty application table.
func New(options ...Option) *Service {
	s := &Service{
		programs: make(map[string]user.Program),
		byName:   make(map[string]*Image),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), "")
	}
	return s
}

// RegisterProgram makes entry available to manifests under name.
func (s *Service) RegisterProgram(name string, entry user.Program) {
	s.programs[name] = entry
}

// Register adds or replaces the image called name.
func (s *Service) Register(name string, entry user.Program, data []byte) {
	s.programs[name] = entry
	image := &Image{Name: name, Data: data, Entry: entry}
	if prev, ok := s.byName[name]; ok {
		*prev = *image
		return
	}
	s.images = append(s.images, image)
	s.byName[name] = image
}

// LoadManifest reads the YAML manifest at URL and registers its applications
// in order.
func (s *Service) LoadManifest(ctx context.Context, URL string) error {
	manifest := &Manifest{}
	if err := s.metaService.Load(ctx, URL, manifest); err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	for _, app := range manifest.Apps {
		entry, ok := s.programs[app.program()]
		if !ok {
			return fmt.Errorf("app %v: program %v: %w", app.Name, app.program(), ErrNotFound)
		}
		var data []byte
		if app.Data != "" {
			var err error
			if data, err = s.metaService.Download(ctx, app.Data); err != nil {
				return fmt.Errorf("app %v: %w", app.Name, err)
			}
		}
		s.Register(app.Name, entry, data)
	}
	return nil
}

// AppData returns the image at index.
func (s *Service) AppData(index int) (*Image, error) {
	if index < 0 || index >= len(s.images) {
		return nil, fmt.Errorf("app %d: %w", index, ErrNotFound)
	}
	return s.images[index], nil
}

// AppDataByName returns the image called name.
func (s *Service) AppDataByName(name string) (*Image, error) {
	image, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("app %v: %w", name, ErrNotFound)
	}
	return image, nil
}

// Names returns the application names in table order.
func (s *Service) Names() []string {
	names := make([]string, len(s.images))
	for i, image := range s.images {
		names[i] = image.Name
	}
	return names
}

// Len returns the number of applications.
func (s *Service) Len() int {
	return len(s.images)
}
