package model

import "math"

// Virtual memory layout constants (Sv39-style, 4 KiB pages).
const (
	PageSizeBits = 12
	PageSize     = 1 << PageSizeBits

	UserStackSize   = 2 * PageSize
	KernelStackSize = 2 * PageSize

	// TextBase is where the first program segment is mapped.
	TextBase = 0x10000

	// Trampoline is the highest virtual page, shared by every address space.
	Trampoline = math.MaxUint64 - PageSize + 1
	// TrapContextBase holds the per-task trap context page.
	TrapContextBase = Trampoline - PageSize
)

// PageFloor rounds addr down to a page boundary.
func PageFloor(addr uint64) uint64 {
	return addr &^ (PageSize - 1)
}

// PageCeil rounds addr up to a page boundary.
func PageCeil(addr uint64) uint64 {
	return (addr + PageSize - 1) &^ (PageSize - 1)
}

// IsPageAligned reports whether addr lies on a page boundary.
func IsPageAligned(addr uint64) bool {
	return addr&(PageSize-1) == 0
}

// KernelStackPosition returns the [bottom, top) range of the kernel stack
// owned by the given slot. The position is a pure function of the slot.
func KernelStackPosition(slot int) (bottom, top uint64) {
	top = Trampoline - uint64(slot)*(KernelStackSize+PageSize)
	bottom = top - KernelStackSize
	return bottom, top
}

// KernelToken is the page table token of the kernel address space.
const KernelToken = 8 << 60
