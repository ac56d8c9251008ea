package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/viant/taskos/model"
	"github.com/viant/taskos/policy"
	"github.com/viant/taskos/progress"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/allocator"
	"github.com/viant/taskos/service/dao"
	"github.com/viant/taskos/service/dao/task/memory"
	"github.com/viant/taskos/service/event"
	"github.com/viant/taskos/service/loader"
	"github.com/viant/taskos/service/messaging"
	"github.com/viant/taskos/service/mm"
	"github.com/viant/taskos/service/scheduler"
)

// Wait results returned by Reap besides a pid.
const (
	NoChild     = -1
	ChildActive = -2
)

// Config represents lifecycle configuration
type Config struct {
	// MaxTasks caps the number of live tasks; zero means unlimited.
	MaxTasks int `json:"maxTasks,omitempty" yaml:"maxTasks,omitempty"`
}

// DefaultConfig returns the default lifecycle configuration
func DefaultConfig() Config {
	return Config{MaxTasks: 64}
}

// Launcher returns the kernel continuation that runs image as t.
type Launcher func(t *task.ControlBlock, image *loader.Image) func()

// Service orchestrates task creation, exit and reaping.
type Service struct {
	config    Config
	policy    policy.Config
	launcher  Launcher
	scheduler *scheduler.Service
	builder   mm.Builder
	table     dao.Service[int, task.ControlBlock]
	journal   dao.Service[int, task.Info]
	events    *event.Service
	progress  *progress.Progress

	pids   *allocator.Service
	stacks *allocator.Service
	init   *task.ControlBlock
}

// New creates a lifecycle service enqueueing new tasks on sched.
func New(sched *scheduler.Service, launcher Launcher, options ...Option) (*Service, error) {
	s := &Service{
		config:    DefaultConfig(),
		policy:    sched.Policy(),
		launcher:  launcher,
		scheduler: sched,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.builder == nil {
		return nil, fmt.Errorf("address space builder is required")
	}
	if s.launcher == nil {
		return nil, fmt.Errorf("launcher is required")
	}
	if s.table == nil {
		s.table = memory.New()
	}
	s.pids = allocator.New(allocator.WithLimit(s.config.MaxTasks))
	s.stacks = allocator.New(allocator.WithLimit(s.config.MaxTasks))
	return s, nil
}

// Init returns the init task, nil before Boot.
func (s *Service) Init() *task.ControlBlock {
	return s.init
}

// Boot creates init from image and enqueues it.
func (s *Service) Boot(ctx context.Context, image *loader.Image) (*task.ControlBlock, error) {
	if s.init != nil {
		return nil, fmt.Errorf("init is already running as pid %d", s.init.PID)
	}
	initTask, err := s.Spawn(ctx, image, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to boot %v: %w", image.Name, err)
	}
	s.init = initTask
	return initTask, nil
}

// Spawn creates a Ready task from image as a child of parent (nil for init)
// and enqueues it.
func (s *Service) Spawn(ctx context.Context, image *loader.Image, parent *task.ControlBlock) (*task.ControlBlock, error) {
	pid, err := s.pids.Alloc()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate pid: %w", err)
	}
	slot, err := s.stacks.Alloc()
	if err != nil {
		s.pids.Dealloc(pid)
		return nil, fmt.Errorf("failed to allocate kernel stack: %w", err)
	}
	space, layout, err := s.builder.Build(image.Name, image.Data)
	if err != nil {
		s.pids.Dealloc(pid)
		s.stacks.Dealloc(slot)
		return nil, err
	}
	stack := task.NewKernelStack(slot)
	t := task.NewControlBlock(pid, image.Name, stack, space, layout)
	trapCx := task.AppInitContext(layout.Entry, layout.UserSP, model.KernelToken, stack.Top(), model.Trampoline)
	taskCx := task.NewContext(stack.Top(), s.launcher(t, image))
	t.With(func(inner *task.Inner) {
		inner.TrapCx = trapCx
		inner.TaskCx = taskCx
	})
	t.SetPriority(s.policy.DefaultPriority, s.policy)
	if parent != nil {
		t.SetParent(parent)
	}
	if err = s.table.Save(ctx, t); err != nil {
		space.RecycleDataPages()
		s.pids.Dealloc(pid)
		s.stacks.Dealloc(slot)
		return nil, fmt.Errorf("failed to save task %d: %w", pid, err)
	}
	if parent != nil {
		parent.AddChild(t)
	}
	s.scheduler.Add(t)
	s.progress.Update(progress.Delta{Created: 1, Live: 1})
	s.record(ctx, event.TypeTaskCreated, t)
	return t, nil
}

// Exit turns t into a Zombie with code, hands its children to init and
// releases its user memory. The caller switches away afterwards.
func (s *Service) Exit(ctx context.Context, t *task.ControlBlock, code int) {
	if t == s.init {
		panic(fmt.Sprintf("lifecycle: init exited with code %d", code))
	}
	var orphans []*task.ControlBlock
	var space mm.AddressSpace
	t.With(func(inner *task.Inner) {
		inner.Status = model.TaskStatusZombie
		inner.ExitCode = code
		orphans = inner.Children
		inner.Children = nil
		space = inner.Space
	})
	for _, child := range orphans {
		child.SetParent(s.init)
		s.init.AddChild(child)
	}
	space.RecycleDataPages()
	s.progress.Update(progress.Delta{Exited: 1})
	s.record(ctx, event.TypeTaskExited, t)
}

// Reap collects a Zombie child of parent. pid -1 matches any child. It
// returns the reaped pid and exit code, or NoChild / ChildActive.
func (s *Service) Reap(ctx context.Context, parent *task.ControlBlock, pid int) (int, int) {
	var zombie *task.ControlBlock
	found := false
	parent.With(func(inner *task.Inner) {
		for i, child := range inner.Children {
			if pid != -1 && child.PID != pid {
				continue
			}
			found = true
			if child.Status() == model.TaskStatusZombie {
				zombie = child
				inner.Children = append(inner.Children[:i], inner.Children[i+1:]...)
				return
			}
		}
	})
	if !found {
		return NoChild, 0
	}
	if zombie == nil {
		return ChildActive, 0
	}
	code := zombie.ExitCode()
	s.pids.Dealloc(zombie.PID)
	s.stacks.Dealloc(zombie.KernelStack.Slot())
	if err := s.table.Delete(ctx, zombie.PID); err != nil {
		log.Printf("lifecycle: failed to delete task %d: %v", zombie.PID, err)
	}
	s.progress.Update(progress.Delta{Reaped: 1, Live: -1})
	s.record(ctx, event.TypeTaskReaped, zombie)
	return zombie.PID, code
}

// Lookup returns the live task with pid.
func (s *Service) Lookup(ctx context.Context, pid int) (*task.ControlBlock, error) {
	return s.table.Load(ctx, pid)
}

// List returns the process table filtered by status.
func (s *Service) List(ctx context.Context, statuses ...model.TaskStatus) ([]*task.ControlBlock, error) {
	var parameters []*dao.Parameter
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, status := range statuses {
			values[i] = string(status)
		}
		parameters = append(parameters, &dao.Parameter{Name: dao.StatusParameter, Value: values})
	}
	return s.table.List(ctx, parameters...)
}

func (s *Service) record(ctx context.Context, eventType string, t *task.ControlBlock) {
	info := t.Info()
	if s.journal != nil {
		if err := s.journal.Save(ctx, &info); err != nil {
			log.Printf("lifecycle: failed to journal task %d: %v", t.PID, err)
		}
	}
	err := event.Emit(ctx, s.events, eventType, info.PID, info.ParentPID, info.Name, info)
	if err != nil && !errors.Is(err, messaging.ErrQueueFull) {
		log.Printf("lifecycle: failed to publish %v for task %d: %v", eventType, t.PID, err)
	}
}
