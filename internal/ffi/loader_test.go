package ffi

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/thesyncim/libgosaxonc/internal/testutil"
)

func TestSystemLoader_RejectsNonLibrary(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, testRID.LibraryFileName("saxonc-ee"), []byte("not a shared object"))

	loader := NewSystemLoader()
	h, err := loader.Load(path, false)
	if err == nil {
		_ = loader.Unload(h)
		t.Fatal("loader accepted a text file")
	}
	if h != 0 {
		t.Errorf("failed load returned handle %d", h)
	}
}

func TestSystemLoader_MissingFile(t *testing.T) {
	loader := NewSystemLoader()
	if _, err := loader.Load(filepath.Join(t.TempDir(), "libmissing.so"), true); err == nil {
		t.Fatal("loader accepted a missing file")
	}
}

func TestSystemLoader_SymbolLookup(t *testing.T) {
	loader, h := openLibC(t)

	if addr, err := loader.Symbol(h, "strlen"); err != nil || addr == 0 {
		t.Errorf("Symbol(strlen) = %#x, %v", addr, err)
	}
	if _, err := loader.Symbol(h, "saxonc_no_such_symbol"); err == nil {
		t.Error("missing symbol resolved")
	}
	if _, err := loader.Symbol(0, "strlen"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("zero handle err = %v, want ErrNotLoaded", err)
	}
}

func TestSystemLoader_UnloadZeroHandle(t *testing.T) {
	if err := NewSystemLoader().Unload(0); err != nil {
		t.Errorf("Unload(0) = %v", err)
	}
}
