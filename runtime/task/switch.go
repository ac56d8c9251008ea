package task

import (
	"errors"
	"runtime"
	"sync"
)

// ErrEntryReturned is reported when a task entry returns instead of exiting.
var ErrEntryReturned = errors.New("task: entry returned without exit")

// GoSwitcher is the goroutine-backed Switcher. Each started context owns one
// goroutine that is parked whenever the context is not running.
type GoSwitcher struct {
	idle   *Context
	halt   chan struct{}
	once   sync.Once
	fault  interface{}
	faults bool
}

// NewGoSwitcher creates a switcher; idle receives control back when a task
// goroutine panics.
func NewGoSwitcher(idle *Context) *GoSwitcher {
	return &GoSwitcher{idle: idle, halt: make(chan struct{})}
}

// Switch saves the caller into save and resumes next.
func (s *GoSwitcher) Switch(save, next *Context) {
	s.wake(next)
	s.park(save)
}

// Exit resumes next and terminates the calling goroutine.
func (s *GoSwitcher) Exit(next *Context) {
	s.wake(next)
	runtime.Goexit()
}

// Halt releases every parked goroutine; they terminate without resuming.
func (s *GoSwitcher) Halt() {
	s.once.Do(func() { close(s.halt) })
}

// Fault returns and clears the panic value carried back from a task goroutine.
func (s *GoSwitcher) Fault() (interface{}, bool) {
	fault, ok := s.fault, s.faults
	s.fault, s.faults = nil, false
	return fault, ok
}

func (s *GoSwitcher) wake(next *Context) {
	if !next.started {
		next.started = true
		go s.launch(next)
		return
	}
	select {
	case next.resume <- struct{}{}:
	default:
		panic("task: context resumed twice")
	}
}

func (s *GoSwitcher) park(c *Context) {
	select {
	case <-c.resume:
	case <-s.halt:
		runtime.Goexit()
	}
}

func (s *GoSwitcher) launch(c *Context) {
	defer func() {
		// recover returns nil while unwinding from runtime.Goexit
		if r := recover(); r != nil {
			s.fault, s.faults = r, true
			s.wake(s.idle)
		}
	}()
	c.entry()
	s.fault, s.faults = ErrEntryReturned, true
	s.wake(s.idle)
}
