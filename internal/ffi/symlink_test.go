package ffi

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/thesyncim/libgosaxonc/internal/testutil"
)

func TestStabilize_CreatesRelativeLink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	versioned := testutil.Touch(t, dir, "libfoo.so.1.2.3")[0]

	got := Stabilize(OSLinker, versioned, "libfoo.so")
	want := filepath.Join(dir, "libfoo.so")
	if got != want {
		t.Fatalf("Stabilize = %s, want %s", got, want)
	}
	target, err := os.Readlink(want)
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if target != "libfoo.so.1.2.3" {
		t.Errorf("link target = %q, want relative name", target)
	}
}

func TestStabilize_ExistingNameIsLeftAlone(t *testing.T) {
	dir := t.TempDir()
	paths := testutil.Touch(t, dir, "libfoo.so.1", "libfoo.so")

	called := false
	linker := LinkerFunc(func(target, link string) error {
		called = true
		return nil
	})
	if got := Stabilize(linker, paths[0], "libfoo.so"); got != paths[0] {
		t.Errorf("Stabilize = %s, want versioned path", got)
	}
	if called {
		t.Error("linker called despite an existing file")
	}
}

func TestStabilize_LinkFailureIsTolerated(t *testing.T) {
	dir := t.TempDir()
	versioned := testutil.Touch(t, dir, "libfoo.so.1")[0]

	linker := LinkerFunc(func(target, link string) error {
		return os.ErrPermission
	})
	if got := Stabilize(linker, versioned, "libfoo.so"); got != versioned {
		t.Errorf("Stabilize = %s, want %s", got, versioned)
	}
}
