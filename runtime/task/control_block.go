package task

import (
	"fmt"
	"time"
	"weak"

	"github.com/viant/taskos/internal/cell"
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/policy"
	"github.com/viant/taskos/service/mm"
)

// ControlBlock is the kernel record of one task. Identity fields are fixed at
// creation; everything else lives in the exclusively borrowed Inner.
type ControlBlock struct {
	PID         int
	Name        string
	KernelStack KernelStack

	inner *cell.Exclusive[Inner]
}

// Inner holds the mutable part of a control block.
type Inner struct {
	Status   model.TaskStatus
	TaskCx   *Context
	TrapCx   *TrapContext
	Space    mm.AddressSpace
	Layout   mm.Layout
	Parent   weak.Pointer[ControlBlock]
	Children []*ControlBlock
	ExitCode int

	SyscallTimes  [model.MaxSyscallNum]uint32
	FirstDispatch time.Time

	Priority uint64
	Stride   uint64
	Pass     uint64

	HeapBottom uint64
	ProgramBrk uint64
}

// NewControlBlock creates a Ready task owning stack and space.
func NewControlBlock(pid int, name string, stack KernelStack, space mm.AddressSpace, layout mm.Layout) *ControlBlock {
	return &ControlBlock{
		PID:         pid,
		Name:        name,
		KernelStack: stack,
		inner: cell.New(fmt.Sprintf("task %d", pid), Inner{
			Status:     model.TaskStatusReady,
			Space:      space,
			Layout:     layout,
			HeapBottom: layout.HeapBottom,
			ProgramBrk: layout.HeapBottom,
		}),
	}
}

// Access borrows the mutable state; release must be called before any switch.
func (c *ControlBlock) Access() (*Inner, func()) {
	return c.inner.Access()
}

// With runs fn with the mutable state borrowed.
func (c *ControlBlock) With(fn func(inner *Inner)) {
	c.inner.With(fn)
}

// Status returns the current status.
func (c *ControlBlock) Status() (status model.TaskStatus) {
	c.With(func(inner *Inner) { status = inner.Status })
	return status
}

// SetStatus updates the status.
func (c *ControlBlock) SetStatus(status model.TaskStatus) {
	c.With(func(inner *Inner) { inner.Status = status })
}

// TaskContext returns the saved kernel continuation.
func (c *ControlBlock) TaskContext() (cx *Context) {
	c.With(func(inner *Inner) { cx = inner.TaskCx })
	return cx
}

// TrapContext returns the saved user registers.
func (c *ControlBlock) TrapContext() (cx *TrapContext) {
	c.With(func(inner *Inner) { cx = inner.TrapCx })
	return cx
}

// Space returns the task's address space.
func (c *ControlBlock) Space() (space mm.AddressSpace) {
	c.With(func(inner *Inner) { space = inner.Space })
	return space
}

// Parent returns the parent when it is still alive.
func (c *ControlBlock) Parent() (parent *ControlBlock) {
	c.With(func(inner *Inner) { parent = inner.Parent.Value() })
	return parent
}

// SetParent links the task to parent without keeping it alive.
func (c *ControlBlock) SetParent(parent *ControlBlock) {
	c.With(func(inner *Inner) { inner.Parent = weak.Make(parent) })
}

// AddChild appends child to the children list.
func (c *ControlBlock) AddChild(child *ControlBlock) {
	c.With(func(inner *Inner) { inner.Children = append(inner.Children, child) })
}

// Children returns a copy of the children list.
func (c *ControlBlock) Children() (children []*ControlBlock) {
	c.With(func(inner *Inner) { children = append(children, inner.Children...) })
	return children
}

// ExitCode returns the recorded exit code.
func (c *ControlBlock) ExitCode() (code int) {
	c.With(func(inner *Inner) { code = inner.ExitCode })
	return code
}

// Stride returns the accumulated stride.
func (c *ControlBlock) Stride() (stride uint64) {
	c.With(func(inner *Inner) { stride = inner.Stride })
	return stride
}

// AdvanceStride adds the pass to the stride.
func (c *ControlBlock) AdvanceStride() {
	c.With(func(inner *Inner) { inner.Stride += inner.Pass })
}

// SetPriority stores priority and the pass the dispatch policy derives from it.
func (c *ControlBlock) SetPriority(priority uint64, dispatch policy.Config) {
	pass := dispatch.Pass(priority)
	c.With(func(inner *Inner) {
		inner.Priority = priority
		inner.Pass = pass
	})
}

// IncrementSyscall counts one invocation of id while the task is running.
func (c *ControlBlock) IncrementSyscall(id int) {
	if id < 0 || id >= model.MaxSyscallNum {
		return
	}
	c.With(func(inner *Inner) {
		if inner.Status == model.TaskStatusRunning {
			inner.SyscallTimes[id]++
		}
	})
}

// MarkDispatched records the first dispatch time.
func (c *ControlBlock) MarkDispatched(now time.Time) {
	c.With(func(inner *Inner) {
		if inner.FirstDispatch.IsZero() {
			inner.FirstDispatch = now
		}
	})
}

// ChangeProgramBrk moves the program break by delta. It returns the previous
// break, or false when the new break would fall below the heap bottom or the
// address space rejects the change.
func (c *ControlBlock) ChangeProgramBrk(delta int64) (old uint64, ok bool) {
	c.With(func(inner *Inner) {
		old = inner.ProgramBrk
		next := int64(old) + delta
		if next < int64(inner.HeapBottom) {
			return
		}
		if delta < 0 {
			ok = inner.Space.ShrinkTo(inner.HeapBottom, uint64(next))
		} else {
			ok = inner.Space.AppendTo(inner.HeapBottom, uint64(next))
		}
		if ok {
			inner.ProgramBrk = uint64(next)
		}
	})
	return old, ok
}

// Info is a read-only view of a control block.
type Info struct {
	PID        int              `json:"pid" yaml:"pid"`
	Name       string           `json:"name" yaml:"name"`
	Status     model.TaskStatus `json:"status" yaml:"status"`
	ParentPID  int              `json:"parentPid" yaml:"parentPid"`
	Children   []int            `json:"children,omitempty" yaml:"children,omitempty"`
	ExitCode   int              `json:"exitCode" yaml:"exitCode"`
	Priority   uint64           `json:"priority" yaml:"priority"`
	Stride     uint64           `json:"stride" yaml:"stride"`
	ProgramBrk uint64           `json:"programBrk" yaml:"programBrk"`
}

// Info returns a snapshot of the control block; ParentPID is -1 without a parent.
func (c *ControlBlock) Info() Info {
	info := Info{PID: c.PID, Name: c.Name, ParentPID: -1}
	c.With(func(inner *Inner) {
		info.Status = inner.Status
		info.ExitCode = inner.ExitCode
		info.Priority = inner.Priority
		info.Stride = inner.Stride
		info.ProgramBrk = inner.ProgramBrk
		if parent := inner.Parent.Value(); parent != nil {
			info.ParentPID = parent.PID
		}
		for _, child := range inner.Children {
			info.Children = append(info.Children, child.PID)
		}
	})
	return info
}
