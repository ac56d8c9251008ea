// Package cell provides a non-reentrant exclusive-access guard for state that
// is only ever touched by one execution flow at a time. It does not provide
// mutual exclusion: it asserts at run time that no two borrows overlap, so a
// borrow leaked across a context switch surfaces as a panic at the next access.
package cell

import (
	"fmt"
	"sync/atomic"
)

// Exclusive guards a value of type T.
type Exclusive[T any] struct {
	value    T
	borrowed atomic.Bool
	name     string
}

// New creates a guard around value. The name is used in panic messages.
func New[T any](name string, value T) *Exclusive[T] {
	return &Exclusive[T]{value: value, name: name}
}

// Access borrows the value. The returned release function must be called
// before the borrower can be suspended.
func (c *Exclusive[T]) Access() (*T, func()) {
	if !c.borrowed.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("cell %v: already borrowed", c.name))
	}
	released := false
	return &c.value, func() {
		if released {
			return
		}
		released = true
		c.borrowed.Store(false)
	}
}

// With runs fn while holding the borrow.
func (c *Exclusive[T]) With(fn func(value *T)) {
	value, release := c.Access()
	defer release()
	fn(value)
}

// Borrowed reports whether the value is currently borrowed.
func (c *Exclusive[T]) Borrowed() bool {
	return c.borrowed.Load()
}
