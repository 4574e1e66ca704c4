//go:build !linux

package ffi

func detectLibc() Libc {
	return ""
}
