// Package ffi locates, loads and binds the SaxonC native libraries.
// It supports both purego (default) and CGO dlopen backends via build tags,
// and the Windows system loader through golang.org/x/sys/windows.
package ffi

import (
	"errors"
)

var (
	// ErrUnsupportedPlatform is returned when the OS/architecture pair has no native build.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrLibraryNotFound is returned when no candidate file exists in any search root.
	ErrLibraryNotFound = errors.New("native library not found")

	// ErrLibraryLoadFailed is returned when candidates exist but the OS loader rejected all of them.
	ErrLibraryLoadFailed = errors.New("native library load failed")

	// ErrSymbolNotFound is returned when an exported function is missing from a loaded library.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNotLoaded is returned when a library has not been loaded by the registry.
	ErrNotLoaded = errors.New("native library not loaded")

	// ErrRollbackFailed marks a secondary failure while unloading libraries after a failed initialization.
	ErrRollbackFailed = errors.New("rollback failed")
)

// Logical names of the SaxonC libraries.
const (
	CoreLibraryName = "saxonc-core-ee"
	MainLibraryName = "saxonc-ee"
)

// LibrarySpec declares a library the registry must load.
type LibrarySpec struct {
	// Name is the logical name without prefix or extension, e.g. "saxonc-core-ee".
	Name string
	// Required libraries abort the whole initialization when they fail to load.
	Required bool
	// Global exports the library's symbols to libraries loaded after it (RTLD_GLOBAL).
	Global bool
	// Symlink creates the unversioned stable name next to a versioned artifact before loading.
	Symlink bool
}

// DefaultLibraries returns the SaxonC load order: the core library first, globally,
// so the main library can resolve its symbols.
func DefaultLibraries(core, main string) []LibrarySpec {
	if core == "" {
		core = CoreLibraryName
	}
	if main == "" {
		main = MainLibraryName
	}
	return []LibrarySpec{
		{Name: core, Required: true, Global: true, Symlink: true},
		{Name: main, Required: true, Symlink: true},
	}
}

// Handle is an opaque native library handle. Zero is never a valid handle.
type Handle uintptr

// LoadedLibrary is a library owned by a Registry.
type LoadedLibrary struct {
	Name   string
	Path   string // the resolved artifact
	Handle Handle
}
