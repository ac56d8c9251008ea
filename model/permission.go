package model

import "strings"

// MapPermission is the permission set of a mapped area.
type MapPermission uint8

const (
	PermR MapPermission = 1 << 1
	PermW MapPermission = 1 << 2
	PermX MapPermission = 1 << 3
	PermU MapPermission = 1 << 4
)

// Prot bits accepted by mmap.
const (
	ProtRead  = 0x1
	ProtWrite = 0x2
	ProtExec  = 0x4
	protMask  = ProtRead | ProtWrite | ProtExec
)

// PermissionFromProt converts mmap prot bits to a user mapping permission.
// It returns false when prot has no R/W/X bit or carries bits outside them.
func PermissionFromProt(prot uint64) (MapPermission, bool) {
	if prot&^protMask != 0 || prot&protMask == 0 {
		return 0, false
	}
	perm := PermU
	if prot&ProtRead != 0 {
		perm |= PermR
	}
	if prot&ProtWrite != 0 {
		perm |= PermW
	}
	if prot&ProtExec != 0 {
		perm |= PermX
	}
	return perm, true
}

// Contains reports whether every bit of other is present in p.
func (p MapPermission) Contains(other MapPermission) bool {
	return p&other == other
}

func (p MapPermission) String() string {
	var b strings.Builder
	for _, item := range []struct {
		bit  MapPermission
		char byte
	}{{PermR, 'r'}, {PermW, 'w'}, {PermX, 'x'}, {PermU, 'u'}} {
		if p&item.bit != 0 {
			b.WriteByte(item.char)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
