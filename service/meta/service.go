package meta

import (
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service resolves locations against a base URL and downloads them.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
	lookup  func(string) string
}

// New creates a meta service; options are passed to every download (for
// example an embed.FS).
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options, lookup: os.Getenv}
}

// URL resolves location against the base URL.
func (s *Service) URL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Download returns the raw content of location.
func (s *Service) Download(ctx context.Context, location string) ([]byte, error) {
	URL := s.URL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return data, nil
}

// Load decodes the YAML document at location into target.
func (s *Service) Load(ctx context.Context, location string, target interface{}) error {
	data, err := s.Download(ctx, location)
	if err != nil {
		return err
	}
	return s.Decode(data, target)
}

// Decode expands env expressions in data and decodes it into target.
func (s *Service) Decode(data []byte, target interface{}) error {
	expanded := expandEnv(string(data), s.lookup)
	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to decode yaml: %w", err)
	}
	return nil
}
