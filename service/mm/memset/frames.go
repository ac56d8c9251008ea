package memset

import (
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/service/allocator"
)

// Config represents the physical memory configuration.
type Config struct {
	// Frames is the number of physical frames; zero selects the default.
	Frames int `json:"frames,omitempty" yaml:"frames,omitempty"`
}

// DefaultConfig returns the default physical memory configuration.
func DefaultConfig() Config {
	return Config{Frames: 4096}
}

// Frames is the physical frame pool shared by every space.
type Frames struct {
	ids  *allocator.Service
	data map[int][]byte
}

// NewFrames creates a frame pool.
func NewFrames(config Config) *Frames {
	if config.Frames <= 0 {
		config.Frames = DefaultConfig().Frames
	}
	return &Frames{
		ids:  allocator.New(allocator.WithLimit(config.Frames)),
		data: make(map[int][]byte),
	}
}

// Alloc returns a zeroed frame.
func (f *Frames) Alloc() (int, []byte, error) {
	ppn, err := f.ids.Alloc()
	if err != nil {
		return 0, nil, err
	}
	page := make([]byte, model.PageSize)
	f.data[ppn] = page
	return ppn, page, nil
}

// Dealloc returns a frame to the pool.
func (f *Frames) Dealloc(ppn int) {
	f.ids.Dealloc(ppn)
	delete(f.data, ppn)
}

// Available returns the number of free frames.
func (f *Frames) Available() int {
	remaining, _ := f.ids.Remaining()
	return remaining
}

// InUse returns the number of allocated frames.
func (f *Frames) InUse() int {
	return f.ids.InUse()
}
