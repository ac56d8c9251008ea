// Package trap connects user programs to the kernel. An Env stands in for
// the user/kernel boundary of one task: every syscall is written into the
// task's trap context, dispatched, and its result read back from a0.
package trap
