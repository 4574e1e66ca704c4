//go:build linux

package ffi

import (
	"path/filepath"
	"testing"

	"github.com/thesyncim/libgosaxonc/internal/testutil"
)

func TestParseLddBanner(t *testing.T) {
	testCases := []struct {
		name   string
		banner string
		want   Libc
		ok     bool
	}{
		{"glibc", "ldd (Ubuntu GLIBC 2.35-0ubuntu3.8) 2.35\nCopyright (C) 2022", LibcGlibc, true},
		{"gnu libc", "ldd (GNU libc) 2.39", LibcGlibc, true},
		{"musl", "musl libc (x86_64)\nVersion 1.2.4\nDynamic Program Loader", LibcMusl, true},
		{"unknown", "ldd: command output unrecognised", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseLddBanner([]byte(tc.banner))
			if got != tc.want || ok != tc.ok {
				t.Errorf("parseLddBanner = %q, %v; want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestLibcFromMaps(t *testing.T) {
	dir := t.TempDir()
	musl := testutil.WriteFile(t, dir, "musl", []byte("7f0000-7f1000 r-xp 00000000 08:01 42 /lib/ld-musl-x86_64.so.1\n"))
	glibc := testutil.WriteFile(t, dir, "glibc", []byte("7f0000-7f1000 r-xp 00000000 08:01 42 /usr/lib/x86_64-linux-gnu/libc.so.6\n"))
	empty := testutil.WriteFile(t, dir, "empty", nil)

	testCases := []struct {
		path string
		want Libc
	}{
		{musl, LibcMusl},
		{glibc, LibcGlibc},
		{empty, LibcGlibc},
		{filepath.Join(dir, "missing"), LibcGlibc},
	}
	for _, tc := range testCases {
		t.Run(filepath.Base(tc.path), func(t *testing.T) {
			if got := libcFromMaps(tc.path); got != tc.want {
				t.Errorf("libcFromMaps = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectLibcNeverEmpty(t *testing.T) {
	if got := detectLibc(); got != LibcGlibc && got != LibcMusl {
		t.Errorf("detectLibc = %q", got)
	}
}
