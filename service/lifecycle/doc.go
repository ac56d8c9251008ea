// Package lifecycle creates, exits and reaps tasks. It owns the pid and
// kernel stack allocators and the process table, keeps the parent/child
// hierarchy rooted at init, and reports every transition to the progress
// tracker, the event service and the optional accounting journal.
package lifecycle
