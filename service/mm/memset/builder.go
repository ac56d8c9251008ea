package memset

import (
	"fmt"

	"github.com/viant/taskos/model"
	"github.com/viant/taskos/service/mm"
)

// ScratchBase is the user page the user library uses for syscall out-params.
const ScratchBase = model.TrapContextBase - 2*model.PageSize

// Builder builds spaces from program images out of a shared frame pool.
type Builder struct {
	frames *Frames
}

// NewBuilder creates a builder over frames.
func NewBuilder(frames *Frames) *Builder {
	return &Builder{frames: frames}
}

// Frames returns the frame pool.
func (b *Builder) Frames() *Frames {
	return b.frames
}

// Build maps the image text at TextBase followed by a guard page, the user
// stack and an empty heap; the scratch and trap context pages sit below the
// trampoline.
func (b *Builder) Build(name string, data []byte) (space mm.AddressSpace, layout mm.Layout, err error) {
	s, err := NewSpace(b.frames)
	if err != nil {
		return nil, layout, fmt.Errorf("failed to build %v: %w", name, err)
	}
	defer func() {
		if err != nil {
			s.RecycleDataPages()
		}
	}()
	textEnd := uint64(model.TextBase) + model.PageCeil(uint64(len(data)))
	if len(data) == 0 {
		textEnd += model.PageSize
	}
	if _, err = s.insert(model.TextBase, textEnd, model.PermR|model.PermX|model.PermU, areaText); err != nil {
		return nil, layout, fmt.Errorf("failed to build %v: %w", name, err)
	}
	if err = copyInto(s, model.TextBase, data); err != nil {
		return nil, layout, err
	}
	stackBottom := textEnd + model.PageSize
	stackTop := stackBottom + model.UserStackSize
	if _, err = s.insert(stackBottom, stackTop, model.PermR|model.PermW|model.PermU, areaStack); err != nil {
		return nil, layout, fmt.Errorf("failed to build %v: %w", name, err)
	}
	s.areas = append(s.areas, &area{start: stackTop, end: stackTop, perm: model.PermR | model.PermW | model.PermU, kind: areaHeap})
	if _, err = s.insert(ScratchBase, ScratchBase+model.PageSize, model.PermR|model.PermW|model.PermU, areaScratch); err != nil {
		return nil, layout, fmt.Errorf("failed to build %v: %w", name, err)
	}
	if _, err = s.insert(model.TrapContextBase, model.Trampoline, model.PermR|model.PermW, areaTrap); err != nil {
		return nil, layout, fmt.Errorf("failed to build %v: %w", name, err)
	}
	layout = mm.Layout{
		Entry:       model.TextBase,
		UserSP:      stackTop,
		HeapBottom:  stackTop,
		Scratch:     ScratchBase,
		TrapContext: model.TrapContextBase,
	}
	return s, layout, nil
}

func copyInto(s *Space, addr uint64, data []byte) error {
	buffers, err := s.Translate(addr, uint64(len(data)), 0)
	if err != nil {
		return err
	}
	offset := 0
	for _, buf := range buffers {
		offset += copy(buf, data[offset:])
	}
	return nil
}

var _ mm.Builder = (*Builder)(nil)
