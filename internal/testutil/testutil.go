// Package testutil provides shared test utilities for libgosaxonc tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ELFHeader is the start of a 64-bit little-endian ELF shared object. Enough
// for file type sniffing, not for loading.
var ELFHeader = []byte{
	0x7f, 'E', 'L', 'F', 2, 1, 1, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	3, 0, // e_type = ET_DYN
	0x3e, 0, // e_machine = x86-64
}

// NativeDir creates {base}/runtimes/{rid}/native and returns its path.
func NativeDir(tb testing.TB, base, rid string) string {
	tb.Helper()
	dir := filepath.Join(base, "runtimes", rid, "native")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		tb.Fatalf("create native dir: %v", err)
	}
	return dir
}

// Touch creates empty files in dir and returns their paths in argument order.
func Touch(tb testing.TB, dir string, names ...string) []string {
	tb.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, WriteFile(tb, dir, name, nil))
	}
	return paths
}

// WriteFile writes data to dir/name, creating dir, and returns the path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		tb.Fatalf("create dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteScript writes an executable shell script to dir/name. Skips on Windows.
func WriteScript(tb testing.TB, dir, name, body string) string {
	tb.Helper()
	if runtime.GOOS == "windows" {
		tb.Skip("shell scripts are not executable on windows")
	}
	path := WriteFile(tb, dir, name, []byte("#!/bin/sh\n"+body+"\n"))
	if err := os.Chmod(path, 0o755); err != nil {
		tb.Fatalf("chmod %s: %v", path, err)
	}
	return path
}

// SystemLibC returns a C library path the platform loader can open, or skips.
func SystemLibC(tb testing.TB) string {
	tb.Helper()
	switch runtime.GOOS {
	case "linux":
		return "libc.so.6"
	case "darwin":
		return "/usr/lib/libSystem.B.dylib"
	case "windows":
		return `C:\Windows\System32\msvcrt.dll`
	}
	tb.Skipf("no system C library known for %s", runtime.GOOS)
	return ""
}
