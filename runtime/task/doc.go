// Package task defines the per-task kernel records: the task control block,
// its saved trap context, its kernel stack slot and the saved kernel-mode
// continuation used by the cooperative context switch.
//
// A Context is resumed through a Switcher. GoSwitcher backs every task by a
// goroutine parked on its continuation: a switch wakes exactly one
// continuation and parks the caller, so at most one flow of control executes
// kernel or task code at any time.
package task
