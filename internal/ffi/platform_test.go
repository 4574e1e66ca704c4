package ffi

import (
	"errors"
	"testing"
)

func TestIdentifyFor(t *testing.T) {
	glibc := func() Libc { return LibcGlibc }
	musl := func() Libc { return LibcMusl }

	testCases := []struct {
		goos     string
		goarch   string
		probe    func() Libc
		expected string
	}{
		{"windows", "amd64", nil, "win-x64"},
		{"linux", "amd64", glibc, "linux-x64"},
		{"linux", "arm64", glibc, "linux-arm64"},
		{"linux", "amd64", musl, "linux-musl-x64"},
		{"darwin", "amd64", nil, "osx-x64"},
		{"darwin", "arm64", nil, "osx-arm64"},
		{"linux", "amd64", nil, "linux-x64"},
		{"linux", "amd64", func() Libc { return "" }, "linux-x64"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			rid, err := IdentifyFor(tc.goos, tc.goarch, tc.probe)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rid.String(); got != tc.expected {
				t.Errorf("RID mismatch: got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestIdentifyFor_Unsupported(t *testing.T) {
	unsupported := []struct {
		goos   string
		goarch string
	}{
		{"windows", "arm64"},
		{"windows", "386"},
		{"linux", "386"},
		{"linux", "ppc64le"},
		{"freebsd", "amd64"},
	}

	for _, tc := range unsupported {
		t.Run(tc.goos+"_"+tc.goarch, func(t *testing.T) {
			_, err := IdentifyFor(tc.goos, tc.goarch, nil)
			if !errors.Is(err, ErrUnsupportedPlatform) {
				t.Fatalf("expected ErrUnsupportedPlatform for %s/%s, got %v", tc.goos, tc.goarch, err)
			}
		})
	}
}

func TestIdentifyFor_SkipsLibcProbeOffLinux(t *testing.T) {
	probe := func() Libc {
		t.Fatal("libc probe called on darwin")
		return ""
	}
	rid, err := IdentifyFor("darwin", "arm64", probe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rid.Libc != "" {
		t.Errorf("libc = %q, want empty", rid.Libc)
	}
}

func TestLibraryFileNames(t *testing.T) {
	testCases := []struct {
		os       OS
		expected string
	}{
		{OSMacOS, "libsaxonc-core-ee.dylib"},
		{OSWindows, "saxonc-core-ee.dll"},
		{OSLinux, "libsaxonc-core-ee.so"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.os), func(t *testing.T) {
			rid := RuntimeIdentifier{OS: tc.os, Arch: ArchX64}
			if got := rid.LibraryFileName(CoreLibraryName); got != tc.expected {
				t.Errorf("library name mismatch: got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestIdentifyIsStable(t *testing.T) {
	first, err1 := Identify()
	second, err2 := Identify()
	if first != second || !errors.Is(err2, err1) {
		t.Errorf("Identify not stable: %v/%v vs %v/%v", first, err1, second, err2)
	}
}
