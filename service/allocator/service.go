package allocator

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"
)

// ErrExhausted is returned when a limited allocator has no identifier left.
var ErrExhausted = errors.New("allocator: exhausted")

// Config represents allocator configuration
type Config struct {
	// Start is the first identifier returned by the counter.
	Start int `json:"start" yaml:"start"`
	// Limit caps the identifier range to [Start, Start+Limit); zero means unlimited.
	Limit int `json:"limit" yaml:"limit"`
}

// DefaultConfig returns the default allocator configuration
func DefaultConfig() Config {
	return Config{}
}

// Service allocates identifiers, recycling released ones first.
type Service struct {
	config   Config
	current  int
	recycled idHeap
	free     map[int]bool
	mu       sync.Mutex
}

// New creates a new allocator
func New(options ...Option) *Service {
	s := &Service{config: DefaultConfig(), free: make(map[int]bool)}
	for _, opt := range options {
		opt(s)
	}
	s.current = s.config.Start
	return s
}

// Alloc returns the smallest identifier that is not in use.
func (s *Service) Alloc() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recycled.Len() > 0 {
		id := heap.Pop(&s.recycled).(int)
		delete(s.free, id)
		return id, nil
	}
	if s.config.Limit > 0 && s.current-s.config.Start >= s.config.Limit {
		return 0, ErrExhausted
	}
	id := s.current
	s.current++
	return id, nil
}

// MustAlloc is Alloc for allocators whose exhaustion is fatal.
func (s *Service) MustAlloc() int {
	id, err := s.Alloc()
	if err != nil {
		panic(err)
	}
	return id
}

// Dealloc releases id. It panics when id was never allocated or is already free.
func (s *Service) Dealloc(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < s.config.Start || id >= s.current {
		panic(fmt.Sprintf("allocator: id %d has not been allocated", id))
	}
	if s.free[id] {
		panic(fmt.Sprintf("allocator: id %d has been deallocated", id))
	}
	s.free[id] = true
	heap.Push(&s.recycled, id)
}

// InUse returns the number of live identifiers.
func (s *Service) InUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current - s.config.Start - s.recycled.Len()
}

// Remaining returns how many identifiers Alloc can still hand out; false
// when the allocator is unlimited.
func (s *Service) Remaining() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.Limit <= 0 {
		return 0, false
	}
	return s.config.Limit - (s.current - s.config.Start - s.recycled.Len()), true
}

type idHeap []int

func (h idHeap) Len() int            { return len(h) }
func (h idHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *idHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var _ heap.Interface = (*idHeap)(nil)
