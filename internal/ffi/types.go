package ffi

import (
	"unsafe"
)

// CString allocates a null-terminated C string from a Go string.
// The caller is responsible for keeping the returned byte slice alive
// for as long as the C code needs it.
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	b[len(s)] = 0
	return b
}

// CStringPtr returns a pointer to a null-terminated C string.
func CStringPtr(s string) *byte {
	b := CString(s)
	return &b[0]
}

// GoString copies a null-terminated C string into Go memory.
// Returns "" for a null pointer.
func GoString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}
