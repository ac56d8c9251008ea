package task

// Register indices used by the syscall calling convention.
const (
	RegSP = 2
	RegA0 = 10
	RegA1 = 11
	RegA2 = 12
	RegA7 = 17
)

// TrapContext is the user-mode register snapshot saved on kernel entry. It
// lives in the task's trap context page.
type TrapContext struct {
	X           [32]uint64
	Sstatus     uint64
	Sepc        uint64
	KernelSatp  uint64
	KernelSP    uint64
	TrapHandler uint64
}

// AppInitContext returns the trap context a fresh task returns to user mode with.
func AppInitContext(entry, userSP, kernelSatp, kernelSP, trapHandler uint64) *TrapContext {
	cx := &TrapContext{
		Sepc:        entry,
		KernelSatp:  kernelSatp,
		KernelSP:    kernelSP,
		TrapHandler: trapHandler,
	}
	cx.X[RegSP] = userSP
	return cx
}

// SyscallArgs returns the syscall id and its three arguments.
func (c *TrapContext) SyscallArgs() (int, [3]uint64) {
	return int(c.X[RegA7]), [3]uint64{c.X[RegA0], c.X[RegA1], c.X[RegA2]}
}

// SetSyscall loads a syscall request into the registers, as the user ecall stub does.
func (c *TrapContext) SetSyscall(id int, args [3]uint64) {
	c.X[RegA7] = uint64(id)
	c.X[RegA0], c.X[RegA1], c.X[RegA2] = args[0], args[1], args[2]
}

// SetReturn stores a syscall result in a0.
func (c *TrapContext) SetReturn(value int64) {
	c.X[RegA0] = uint64(value)
}

// Return reads the syscall result from a0.
func (c *TrapContext) Return() int64 {
	return int64(c.X[RegA0])
}
