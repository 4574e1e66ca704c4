//go:build windows

package ffi

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// RTLD flags - not used on Windows but defined for compatibility
const (
	RTLD_NOW    = 0
	RTLD_GLOBAL = 0
)

// LOAD_WITH_ALTERED_SEARCH_PATH makes dependent DLLs resolve from the directory
// of the loaded DLL first, which requires an absolute path.
func dlopenLibrary(path string, flags int) (uintptr, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	handle, err := windows.LoadLibraryEx(abs, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return 0, fmt.Errorf("LoadLibraryEx failed: %w", err)
	}
	return uintptr(handle), nil
}

func dlsymLibrary(handle uintptr, name string) (uintptr, error) {
	addr, err := windows.GetProcAddress(windows.Handle(handle), name)
	if err != nil {
		return 0, fmt.Errorf("GetProcAddress(%s) failed: %w", name, err)
	}
	return addr, nil
}

func dlcloseLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	if err := windows.FreeLibrary(windows.Handle(handle)); err != nil {
		return fmt.Errorf("FreeLibrary failed: %w", err)
	}
	return nil
}
