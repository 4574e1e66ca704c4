//go:build (!linux || !cgo) && !windows

package ffi

import "github.com/ebitengine/purego"

// dlopen flags passed by SystemLoader.Load.
const (
	RTLD_NOW    = purego.RTLD_NOW
	RTLD_GLOBAL = purego.RTLD_GLOBAL
)

// Without cgo on unix the dl calls go through purego, which reports dlerror itself.
func dlopenLibrary(path string, flags int) (uintptr, error) {
	return purego.Dlopen(path, flags)
}

func dlsymLibrary(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func dlcloseLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return purego.Dlclose(handle)
}
