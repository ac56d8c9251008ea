package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/dao"
	"github.com/viant/taskos/service/dao/criteria"
)

// Service is the task accounting journal: one JSON document per pid holding
// the latest task snapshot, stored through afs.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ dao.Service[int, task.Info] = (*Service)(nil)

// Save persists a task snapshot.
func (s *Service) Save(ctx context.Context, info *task.Info) error {
	if info == nil {
		return dao.ErrNilEntity
	}
	if info.PID < 0 {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal task %d: %w", info.PID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.infoURL(info.PID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save task %d to %s: %w", info.PID, URL, err)
	}
	return nil
}

// Load retrieves a task snapshot.
func (s *Service) Load(ctx context.Context, pid int) (*task.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	URL := s.infoURL(pid)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check task %d: %w", pid, err)
	}
	if !exists {
		return nil, fmt.Errorf("task %d: %w", pid, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read task %d: %w", pid, err)
	}
	info := &task.Info{}
	if err = json.Unmarshal(data, info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task %d: %w", pid, err)
	}
	return info, nil
}

// Delete removes a task snapshot.
func (s *Service) Delete(ctx context.Context, pid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.infoURL(pid)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check task %d: %w", pid, err)
	}
	if !exists {
		return fmt.Errorf("task %d: %w", pid, dao.ErrNotFound)
	}
	if err = s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", pid, err)
	}
	return nil
}

// List returns the journaled snapshots ordered by pid.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*task.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.baseURL, err)
	}
	var infos []*task.Info
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("journal: failed to read %s: %v", object.URL(), err)
			continue
		}
		info := &task.Info{}
		if err := json.Unmarshal(data, info); err != nil {
			log.Printf("journal: failed to unmarshal %s: %v", object.URL(), err)
			continue
		}
		if !criteria.FilterByStatus(string(info.Status), parameters) {
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].PID < infos[j].PID })
	return infos, nil
}

func (s *Service) infoURL(pid int) string {
	return url.Join(s.baseURL, strconv.Itoa(pid)+".json")
}

// New creates a journal rooted at baseURL, creating the location if needed.
func New(ctx context.Context, fs afs.Service, baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("journal: base URL cannot be empty")
	}
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create journal location %s: %w", baseURL, err)
		}
	}
	return &Service{baseURL: url.Normalize(baseURL, file.Scheme), fs: fs}, nil
}
