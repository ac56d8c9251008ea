// Package loader keeps the table of program images the kernel can start.
// Images are registered directly or described by a YAML manifest that binds
// application names to registered programs and, optionally, to image data
// downloaded through afs.
package loader
