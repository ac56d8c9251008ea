// Package model contains the plain data types shared by the kernel services:
// task status, syscall numbering, the virtual memory layout, mapping
// permissions and the records a task can read back through task_info and
// get_time.
//
// The package has no behaviour beyond encoding helpers so that it can be
// imported from every layer (runtime, services, the user library) without
// creating cycles.
package model
