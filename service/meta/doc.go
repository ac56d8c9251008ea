// Package meta loads YAML documents (kernel configuration, application
// manifests) and raw assets through viant/afs, so any afs-supported scheme
// (file, mem, embed, cloud storage) can serve them. ${env.KEY} expressions in
// YAML documents are expanded before decoding.
package meta
