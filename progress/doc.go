// Package progress keeps the kernel-wide task counters: how many tasks were
// created, dispatched, exited and reaped, and how many syscalls were served.
package progress
