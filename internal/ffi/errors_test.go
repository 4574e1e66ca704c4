package ffi

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadError(t *testing.T) {
	cause := errors.New("wrong ELF class: ELFCLASS32")
	rollback := errors.New("dlclose failed")
	err := error(&LoadError{
		Kind:     ErrLibraryLoadFailed,
		Library:  "saxonc-ee",
		Path:     "/app/libsaxonc-ee.so",
		Roots:    []string{"/app/runtimes/linux-x64/native", "/app"},
		Platform: "linux-x64",
		Artifact: "application/x-sharedlib",
		Err:      cause,
		Rollback: rollback,
	})

	for _, target := range []error{ErrLibraryLoadFailed, cause, rollback} {
		if !errors.Is(err, target) {
			t.Errorf("errors.Is(err, %v) = false", target)
		}
	}
	if errors.Is(err, ErrLibraryNotFound) {
		t.Error("load failure matches ErrLibraryNotFound")
	}

	msg := err.Error()
	for _, want := range []string{"saxonc-ee", "linux-x64", "/app/libsaxonc-ee.so", "/app/runtimes/linux-x64/native", "ELFCLASS32", "application/x-sharedlib", "dlclose failed"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestSymbolError(t *testing.T) {
	err := error(&SymbolError{Library: "saxonc-core-ee", Symbol: "j_gc"})
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Error("SymbolError does not match ErrSymbolNotFound")
	}
	if !strings.Contains(err.Error(), "j_gc") {
		t.Errorf("message %q missing symbol", err)
	}

	wrapped := error(&SymbolError{Symbol: "j_gc", Err: ErrNotLoaded})
	if !errors.Is(wrapped, ErrNotLoaded) {
		t.Error("SymbolError does not unwrap its cause")
	}
}
