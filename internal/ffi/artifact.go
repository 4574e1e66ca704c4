package ffi

import (
	"github.com/gabriel-vasile/mimetype"
)

// Shared object MIME types reported by mimetype.
const (
	mimeELFSharedLib = "application/x-sharedlib"
	mimeELF          = "application/x-elf"
	mimeMachO        = "application/x-mach-binary"
	mimePE           = "application/vnd.microsoft.portable-executable"
)

// ArtifactType sniffs the file at path and returns its MIME type, or "" if the
// file cannot be read.
func ArtifactType(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	return mtype.String()
}

// LooksLikeLibrary reports whether the sniffed type is a native binary format
// the loader of rid could accept.
func LooksLikeLibrary(rid RuntimeIdentifier, artifact string) bool {
	mtype := mimetype.Lookup(artifact)
	if mtype == nil {
		return false
	}
	switch rid.OS {
	case OSWindows:
		return mtype.Is(mimePE)
	case OSMacOS:
		return mtype.Is(mimeMachO)
	default:
		return mtype.Is(mimeELFSharedLib) || mtype.Is(mimeELF)
	}
}
