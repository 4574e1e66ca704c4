package ffi

import (
	"fmt"
	"runtime"
	"sync"
)

// OS is an operating system family with a native SaxonC build.
type OS string

const (
	OSWindows OS = "windows"
	OSLinux   OS = "linux"
	OSMacOS   OS = "macos"
)

// Arch is a CPU architecture with a native SaxonC build.
type Arch string

const (
	ArchX64   Arch = "x64"
	ArchARM64 Arch = "arm64"
)

// Libc is the Linux C library variant. Empty on other systems.
type Libc string

const (
	LibcGlibc Libc = "glibc"
	LibcMusl  Libc = "musl"
)

// RuntimeIdentifier describes the executing platform.
type RuntimeIdentifier struct {
	OS   OS
	Arch Arch
	Libc Libc
}

// String returns the RID used for the runtimes/{rid}/native directory,
// e.g. "linux-x64", "linux-musl-x64" or "osx-arm64".
func (r RuntimeIdentifier) String() string {
	switch r.OS {
	case OSWindows:
		return "win-" + string(r.Arch)
	case OSMacOS:
		return "osx-" + string(r.Arch)
	case OSLinux:
		if r.Libc == LibcMusl {
			return "linux-musl-" + string(r.Arch)
		}
		return "linux-" + string(r.Arch)
	}
	return string(r.OS) + "-" + string(r.Arch)
}

// NamePrefix returns the shared library file name prefix.
func (r RuntimeIdentifier) NamePrefix() string {
	if r.OS == OSWindows {
		return ""
	}
	return "lib"
}

// FileExtension returns the shared library file extension including the dot.
func (r RuntimeIdentifier) FileExtension() string {
	switch r.OS {
	case OSWindows:
		return ".dll"
	case OSMacOS:
		return ".dylib"
	default:
		return ".so"
	}
}

// LibraryFileName returns the unversioned file name of a logical library.
func (r RuntimeIdentifier) LibraryFileName(name string) string {
	return r.NamePrefix() + name + r.FileExtension()
}

var (
	ridOnce sync.Once
	ridVal  RuntimeIdentifier
	ridErr  error
)

// Identify returns the RID of the running process. The result is computed once.
func Identify() (RuntimeIdentifier, error) {
	ridOnce.Do(func() {
		ridVal, ridErr = IdentifyFor(runtime.GOOS, runtime.GOARCH, detectLibc)
	})
	return ridVal, ridErr
}

// IdentifyFor maps a GOOS/GOARCH pair to a RID. probeLibc is only consulted on Linux
// and may be nil, in which case glibc is assumed.
func IdentifyFor(goos, goarch string, probeLibc func() Libc) (RuntimeIdentifier, error) {
	var rid RuntimeIdentifier
	switch goarch {
	case "amd64":
		rid.Arch = ArchX64
	case "arm64":
		rid.Arch = ArchARM64
	default:
		return RuntimeIdentifier{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}

	switch goos {
	case "windows":
		if rid.Arch != ArchX64 {
			return RuntimeIdentifier{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
		}
		rid.OS = OSWindows
	case "darwin":
		rid.OS = OSMacOS
	case "linux":
		rid.OS = OSLinux
		rid.Libc = LibcGlibc
		if probeLibc != nil {
			if libc := probeLibc(); libc == LibcMusl {
				rid.Libc = LibcMusl
			}
		}
	default:
		return RuntimeIdentifier{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
	return rid, nil
}
