package memset

import (
	"fmt"

	"github.com/viant/taskos/model"
	"github.com/viant/taskos/service/mm"
)

type areaKind int

const (
	areaText areaKind = iota
	areaStack
	areaScratch
	areaTrap
	areaHeap
	areaMmap
)

type area struct {
	start uint64
	end   uint64
	perm  model.MapPermission
	kind  areaKind
}

type entry struct {
	ppn  int
	perm model.MapPermission
	page []byte
}

// Space is an in-memory address space.
type Space struct {
	frames *Frames
	root   int
	pages  map[uint64]*entry
	areas  []*area
}

// NewSpace creates an empty space with its page table root frame.
func NewSpace(frames *Frames) (*Space, error) {
	root, _, err := frames.Alloc()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate page table root: %w", err)
	}
	return &Space{frames: frames, root: root, pages: make(map[uint64]*entry)}, nil
}

// Token returns an Sv39 style satp value for the space.
func (s *Space) Token() uint64 {
	return 8<<60 | uint64(s.root)
}

// InsertFramedArea maps [start, end) as an mmap area.
func (s *Space) InsertFramedArea(start, end uint64, perm model.MapPermission) {
	if _, err := s.insert(start, end, perm, areaMmap); err != nil {
		panic(fmt.Sprintf("memset: %v", err))
	}
}

// IsConflict reports whether any page of [start, end) is mapped.
func (s *Space) IsConflict(start, end uint64) bool {
	start, end = model.PageFloor(start), model.PageCeil(end)
	for _, a := range s.areas {
		if a.start < a.end && a.start < end && start < a.end {
			return true
		}
	}
	return false
}

// CanMap reports whether enough free frames remain to back [start, end).
func (s *Space) CanMap(start, end uint64) bool {
	start, end = model.PageFloor(start), model.PageCeil(end)
	if end < start {
		return false
	}
	return (end-start)/model.PageSize <= uint64(s.frames.Available())
}

// RecycleMapArea unmaps the mmap areas that exactly cover [start, end).
func (s *Space) RecycleMapArea(start, end uint64) bool {
	start, end = model.PageFloor(start), model.PageCeil(end)
	var covered uint64
	var matched []*area
	for _, a := range s.areas {
		if a.end <= start || a.start >= end {
			continue
		}
		if a.kind != areaMmap || a.start < start || a.end > end {
			return false
		}
		covered += a.end - a.start
		matched = append(matched, a)
	}
	if len(matched) == 0 || covered != end-start {
		return false
	}
	for _, a := range matched {
		s.unmap(a.start, a.end)
		s.removeArea(a)
	}
	return true
}

// RecycleDataPages releases every frame of the space, the root included.
func (s *Space) RecycleDataPages() {
	for _, a := range s.areas {
		s.unmap(a.start, a.end)
	}
	s.areas = nil
	if s.root >= 0 {
		s.frames.Dealloc(s.root)
		s.root = -1
	}
}

// AppendTo grows the heap area starting at bottom to cover newEnd.
func (s *Space) AppendTo(bottom, newEnd uint64) bool {
	heap := s.heap(bottom)
	if heap == nil {
		return false
	}
	end := model.PageCeil(newEnd)
	if end <= heap.end {
		return true
	}
	if !s.CanMap(heap.end, end) || s.IsConflict(heap.end, end) {
		return false
	}
	if err := s.mapPages(heap.end, end, heap.perm); err != nil {
		return false
	}
	heap.end = end
	return true
}

// ShrinkTo shrinks the heap area starting at bottom down to newEnd.
func (s *Space) ShrinkTo(bottom, newEnd uint64) bool {
	heap := s.heap(bottom)
	if heap == nil || newEnd < bottom {
		return false
	}
	end := model.PageCeil(newEnd)
	if end < heap.end {
		s.unmap(end, heap.end)
		heap.end = end
	}
	return true
}

// Translate returns the byte slices backing [ptr, ptr+length).
func (s *Space) Translate(ptr, length uint64, need model.MapPermission) ([][]byte, error) {
	var out [][]byte
	end := ptr + length
	if end < ptr {
		return nil, fmt.Errorf("%w: range %#x+%#x overflows", mm.ErrFault, ptr, length)
	}
	for ptr < end {
		e, ok := s.pages[vpnOf(ptr)]
		if !ok {
			return nil, fmt.Errorf("%w: %#x is not mapped", mm.ErrFault, ptr)
		}
		if !e.perm.Contains(need) {
			return nil, fmt.Errorf("%w: %#x is %v, need %v", mm.ErrFault, ptr, e.perm, need)
		}
		offset := ptr - model.PageFloor(ptr)
		limit := uint64(model.PageSize)
		if rest := end - model.PageFloor(ptr); rest < limit {
			limit = rest
		}
		out = append(out, e.page[offset:limit])
		ptr = model.PageFloor(ptr) + model.PageSize
	}
	return out, nil
}

// Areas returns the mapped [start, end) ranges in insertion order.
func (s *Space) Areas() [][2]uint64 {
	out := make([][2]uint64, 0, len(s.areas))
	for _, a := range s.areas {
		out = append(out, [2]uint64{a.start, a.end})
	}
	return out
}

func (s *Space) insert(start, end uint64, perm model.MapPermission, kind areaKind) (*area, error) {
	a := &area{start: model.PageFloor(start), end: model.PageCeil(end), perm: perm, kind: kind}
	if err := s.mapPages(a.start, a.end, perm); err != nil {
		return nil, err
	}
	s.areas = append(s.areas, a)
	return a, nil
}

func (s *Space) mapPages(start, end uint64, perm model.MapPermission) error {
	for addr := start; addr < end; addr += model.PageSize {
		ppn, page, err := s.frames.Alloc()
		if err != nil {
			s.unmap(start, addr)
			return fmt.Errorf("failed to map %#x: %w", addr, err)
		}
		s.pages[vpnOf(addr)] = &entry{ppn: ppn, perm: perm, page: page}
	}
	return nil
}

func (s *Space) unmap(start, end uint64) {
	for addr := start; addr < end; addr += model.PageSize {
		if e, ok := s.pages[vpnOf(addr)]; ok {
			s.frames.Dealloc(e.ppn)
			delete(s.pages, vpnOf(addr))
		}
	}
}

func (s *Space) removeArea(target *area) {
	for i, a := range s.areas {
		if a == target {
			s.areas = append(s.areas[:i], s.areas[i+1:]...)
			return
		}
	}
}

func (s *Space) heap(bottom uint64) *area {
	for _, a := range s.areas {
		if a.kind == areaHeap && a.start == bottom {
			return a
		}
	}
	return nil
}

func vpnOf(addr uint64) uint64 {
	return addr >> model.PageSizeBits
}

var _ mm.AddressSpace = (*Space)(nil)
