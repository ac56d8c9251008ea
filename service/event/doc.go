// Package event publishes kernel lifecycle events (task created, exited,
// reaped, kernel halted) to typed queues that host listeners consume on
// their own goroutines.
package event
