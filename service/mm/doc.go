// Package mm declares the address space collaborator consumed by the task
// services. The memset subpackage provides the in-memory implementation used
// by the kernel and its tests.
package mm
