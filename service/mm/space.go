package mm

import (
	"errors"

	"github.com/viant/taskos/model"
)

var (
	// ErrFault is returned when a user buffer is not mapped with the required permission.
	ErrFault = errors.New("mm: bad address")
)

// AddressSpace is a task's page table together with its mapped areas.
type AddressSpace interface {
	// Token identifies the page table root.
	Token() uint64
	// InsertFramedArea maps [start, end) backed by freshly allocated frames.
	// It panics when physical frames are exhausted.
	InsertFramedArea(start, end uint64, perm model.MapPermission)
	// IsConflict reports whether any page of [start, end) is already mapped.
	IsConflict(start, end uint64) bool
	// CanMap reports whether enough physical frames are free to back [start, end).
	CanMap(start, end uint64) bool
	// RecycleMapArea unmaps [start, end) when the range is exactly a union of
	// areas created by InsertFramedArea; otherwise it changes nothing and
	// returns false.
	RecycleMapArea(start, end uint64) bool
	// RecycleDataPages releases every user frame of the space.
	RecycleDataPages()
	// AppendTo grows the heap area that starts at bottom up to newEnd.
	AppendTo(bottom, newEnd uint64) bool
	// ShrinkTo shrinks the heap area that starts at bottom down to newEnd.
	ShrinkTo(bottom, newEnd uint64) bool
	// Translate returns the page-sized byte slices backing [ptr, ptr+length),
	// requiring every page to carry need.
	Translate(ptr, length uint64, need model.MapPermission) ([][]byte, error)
}

// Layout describes where a freshly built space placed its user regions.
type Layout struct {
	Entry       uint64
	UserSP      uint64
	HeapBottom  uint64
	Scratch     uint64
	TrapContext uint64
}

// Builder creates an address space from a program image.
type Builder interface {
	Build(name string, data []byte) (AddressSpace, Layout, error)
}

// ReadBytes copies length bytes of user memory starting at ptr.
func ReadBytes(space AddressSpace, ptr, length uint64) ([]byte, error) {
	buffers, err := space.Translate(ptr, length, model.PermU|model.PermR)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, length)
	for _, buf := range buffers {
		out = append(out, buf...)
	}
	return out, nil
}

// WriteBytes copies data into user memory starting at ptr.
func WriteBytes(space AddressSpace, ptr uint64, data []byte) error {
	buffers, err := space.Translate(ptr, uint64(len(data)), model.PermU|model.PermW)
	if err != nil {
		return err
	}
	offset := 0
	for _, buf := range buffers {
		offset += copy(buf, data[offset:])
	}
	return nil
}

// ReadString reads a NUL-terminated string of at most limit bytes.
func ReadString(space AddressSpace, ptr uint64, limit int) (string, error) {
	var out []byte
	for len(out) < limit {
		buffers, err := space.Translate(ptr, 1, model.PermU|model.PermR)
		if err != nil {
			return "", err
		}
		if buffers[0][0] == 0 {
			return string(out), nil
		}
		out = append(out, buffers[0][0])
		ptr++
	}
	return "", ErrFault
}
