package ffi

import (
	"fmt"
)

// Loader is the OS dynamic loading primitive. Implementations must never
// return a non-zero handle together with an error.
type Loader interface {
	// Load opens the library at path. Global exports its symbols to later loads.
	Load(path string, global bool) (Handle, error)
	// Unload releases a handle returned by Load.
	Unload(h Handle) error
	// Symbol returns the address of an exported symbol.
	Symbol(h Handle, name string) (uintptr, error)
}

// SystemLoader loads libraries through dlopen on Unix and LoadLibraryEx on Windows.
type SystemLoader struct{}

// NewSystemLoader returns the loader for the running platform.
func NewSystemLoader() *SystemLoader {
	return &SystemLoader{}
}

func (SystemLoader) Load(path string, global bool) (Handle, error) {
	flags := RTLD_NOW
	if global {
		flags |= RTLD_GLOBAL
	}
	handle, err := dlopenLibrary(path, flags)
	if err != nil {
		return 0, err
	}
	if handle == 0 {
		return 0, fmt.Errorf("load %s: loader returned a null handle", path)
	}
	return Handle(handle), nil
}

func (SystemLoader) Unload(h Handle) error {
	return dlcloseLibrary(uintptr(h))
}

func (SystemLoader) Symbol(h Handle, name string) (uintptr, error) {
	if h == 0 {
		return 0, ErrNotLoaded
	}
	addr, err := dlsymLibrary(uintptr(h), name)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, fmt.Errorf("%s resolved to a null address", name)
	}
	return addr, nil
}
