package task

import "github.com/viant/taskos/model"

// KernelStack is the kernel stack region owned by a task. Its address range is
// derived from the slot index.
type KernelStack struct {
	slot int
}

// NewKernelStack wraps an allocated slot.
func NewKernelStack(slot int) KernelStack {
	return KernelStack{slot: slot}
}

// Slot returns the allocator slot backing the stack.
func (k KernelStack) Slot() int {
	return k.slot
}

// Top returns the initial kernel stack pointer.
func (k KernelStack) Top() uint64 {
	_, top := model.KernelStackPosition(k.slot)
	return top
}

// Bottom returns the lowest address of the stack.
func (k KernelStack) Bottom() uint64 {
	bottom, _ := model.KernelStackPosition(k.slot)
	return bottom
}
