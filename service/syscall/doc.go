// Package syscall serves the task-management syscalls. Dispatch runs on the
// calling task's flow of control: it counts the call, opens a trace span and
// invokes the handler. Failures a user program can cause are reported as
// negative results and leave kernel state unchanged; broken kernel
// invariants panic.
package syscall
