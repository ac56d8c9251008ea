// Package memset implements mm.AddressSpace in process memory. Physical
// frames are page-sized byte slices numbered by a limited allocator; a space
// maps virtual page numbers to frames and groups them into areas.
package memset
