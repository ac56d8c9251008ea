package processor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/viant/taskos/internal/clock"
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/progress"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/scheduler"
)

// Config represents processor configuration
type Config struct {
	// TimeSlice bounds how long a task may run before Preempt reports true;
	// zero disables the check.
	TimeSlice time.Duration `json:"timeSlice,omitempty" yaml:"timeSlice,omitempty"`
}

// DefaultConfig returns the default processor configuration
func DefaultConfig() Config {
	return Config{}
}

// Service is the single hart.
type Service struct {
	config    Config
	scheduler *scheduler.Service
	progress  *progress.Progress

	idle         *task.Context
	switcher     *task.GoSwitcher
	current      *task.ControlBlock
	dispatchedAt time.Time
	halted       bool
}

// New creates a processor dispatching from sched.
func New(sched *scheduler.Service, options ...Option) *Service {
	idle := task.NewIdleContext()
	s := &Service{
		config:    DefaultConfig(),
		scheduler: sched,
		idle:      idle,
		switcher:  task.NewGoSwitcher(idle),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Switcher returns the context switch primitive of this hart.
func (s *Service) Switcher() task.Switcher {
	return s.switcher
}

// Current returns the running task, nil while the idle loop runs.
func (s *Service) Current() *task.ControlBlock {
	return s.current
}

// TakeCurrent returns the running task and clears the slot.
func (s *Service) TakeCurrent() *task.ControlBlock {
	current := s.current
	s.current = nil
	return current
}

// Halt asks the idle loop to stop at its next iteration.
func (s *Service) Halt() {
	s.halted = true
}

// Preempt reports whether the running task used up its time slice.
func (s *Service) Preempt() bool {
	if s.config.TimeSlice <= 0 || s.current == nil {
		return false
	}
	return clock.Now().Sub(s.dispatchedAt) >= s.config.TimeSlice
}

// Schedule saves the calling task into save and returns the hart to the idle
// loop. It returns when the task is dispatched again.
func (s *Service) Schedule(save *task.Context) {
	s.switcher.Switch(save, s.idle)
}

// Exit returns the hart to the idle loop without saving the caller.
func (s *Service) Exit() {
	s.switcher.Exit(s.idle)
}

// RunTasks is the idle loop. It returns nil after Halt, or ctx.Err() once ctx
// is done; either way every parked task is released. A panic raised by a task
// is re-raised here.
func (s *Service) RunTasks(ctx context.Context) error {
	defer s.switcher.Halt()
	for {
		if s.halted {
			log.Printf("processor: halted")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		next := s.scheduler.Next()
		if next == nil {
			panic("processor: ready queue is empty and no task is running")
		}
		var cx *task.Context
		next.With(func(inner *task.Inner) {
			if inner.Status != model.TaskStatusReady {
				panic(fmt.Sprintf("processor: task %d is %v, expected %v", next.PID, inner.Status, model.TaskStatusReady))
			}
			inner.Status = model.TaskStatusRunning
			cx = inner.TaskCx
		})
		if dispatch := s.scheduler.Policy(); dispatch.IsStride() {
			next.AdvanceStride()
		}
		now := clock.Now()
		next.MarkDispatched(now)
		s.current, s.dispatchedAt = next, now
		s.progress.Update(progress.Delta{Dispatched: 1})

		s.switcher.Switch(s.idle, cx)

		if fault, ok := s.switcher.Fault(); ok {
			panic(fault)
		}
	}
}
