//go:build linux && cgo

package ffi

/*
#cgo LDFLAGS: -ldl

#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// RTLD flags for dlopen - using C constants from dlfcn.h
const (
	RTLD_NOW    = C.RTLD_NOW
	RTLD_GLOBAL = C.RTLD_GLOBAL
)

// dlerrorText returns and clears the pending dlerror message.
func dlerrorText() string {
	msg := C.dlerror()
	if msg == nil {
		return ""
	}
	return C.GoString(msg)
}

func dlopenLibrary(path string, flags int) (uintptr, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	_ = dlerrorText()
	handle := C.dlopen(cpath, C.int(flags))
	if handle == nil {
		return 0, fmt.Errorf("dlopen: %s", dlerrorText())
	}
	return uintptr(handle), nil
}

func dlsymLibrary(handle uintptr, name string) (uintptr, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	_ = dlerrorText()
	symbol := C.dlsym(unsafe.Pointer(handle), cname)
	if symbol == nil {
		if msg := dlerrorText(); msg != "" {
			return 0, fmt.Errorf("dlsym: %s", msg)
		}
		return 0, errors.New("dlsym: null address")
	}
	return uintptr(symbol), nil
}

func dlcloseLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	if rc := C.dlclose(unsafe.Pointer(handle)); rc != 0 {
		return fmt.Errorf("dlclose: %s", dlerrorText())
	}
	return nil
}
