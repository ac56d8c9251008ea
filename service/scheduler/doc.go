// Package scheduler implements the ready queue. Tasks are dispatched either
// in FIFO order or by smallest accumulated stride, as selected by the policy.
package scheduler
