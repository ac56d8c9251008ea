package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExclusive_Access(t *testing.T) {
	c := New("counter", 1)
	value, release := c.Access()
	*value = 2
	assert.True(t, c.Borrowed())
	assert.Panics(t, func() { c.Access() })
	release()
	release()
	assert.False(t, c.Borrowed())

	c.With(func(value *int) {
		assert.Equal(t, 2, *value)
		*value++
	})
	c.With(func(value *int) {
		assert.Equal(t, 3, *value)
	})
}

func TestExclusive_ReleaseOnPanic(t *testing.T) {
	c := New("counter", 0)
	assert.Panics(t, func() {
		c.With(func(*int) { panic("boom") })
	})
	assert.False(t, c.Borrowed())
}
