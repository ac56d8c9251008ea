// Package allocator hands out small integer identifiers: process ids, kernel
// stack slots and physical frame numbers. Released identifiers are recycled
// before the monotonic counter advances, and the smallest free identifier is
// always returned first. Releasing an identifier that is not in use is a
// programming error and panics.
package allocator
