package ffi

import (
	"errors"
	"strings"
	"testing"

	"github.com/thesyncim/libgosaxonc/internal/testutil"
)

func openLibC(t *testing.T) (*SystemLoader, Handle) {
	t.Helper()
	loader := NewSystemLoader()
	h, err := loader.Load(testutil.SystemLibC(t), false)
	if err != nil {
		t.Skipf("system C library not loadable: %v", err)
	}
	t.Cleanup(func() {
		if err := loader.Unload(h); err != nil {
			t.Errorf("unload libc: %v", err)
		}
	})
	return loader, h
}

func TestBind_MissingSymbol(t *testing.T) {
	loader := newFakeLoader()
	h, _ := loader.Load("/lib/libsaxonc-core-ee.so", true)

	_, err := Bind[func(uintptr) uintptr](loader, h, "createSaxonProcessor")
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("err = %v, want ErrSymbolNotFound", err)
	}
}

func TestBindAddress_Rejections(t *testing.T) {
	if _, err := BindAddress[func()]("null", 0); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("null address err = %v, want ErrSymbolNotFound", err)
	}
	if _, err := BindAddress[int]("notfunc", 0x1000); err == nil {
		t.Error("non-func signature accepted")
	}
}

func TestBind_SystemStrlen(t *testing.T) {
	loader, h := openLibC(t)

	sym, err := Bind[func(string) int](loader, h, "strlen")
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if sym.Address == 0 || sym.Name != "strlen" {
		t.Errorf("bound symbol = %+v", sym)
	}
	if got := sym.Call("saxon"); got != 5 {
		t.Errorf("strlen(saxon) = %d, want 5", got)
	}
}

func TestBindTable(t *testing.T) {
	var table struct {
		Strlen  func(string) int `symbol:"strlen"`
		Ignored func()
	}

	loader, h := openLibC(t)
	lookup := func(name string) (uintptr, error) {
		return loader.Symbol(h, name)
	}
	if err := BindTable(lookup, &table); err != nil {
		t.Fatalf("BindTable: %v", err)
	}
	if table.Strlen == nil || table.Ignored != nil {
		t.Fatal("table fields not bound as tagged")
	}
	if got := table.Strlen("xslt"); got != 4 {
		t.Errorf("strlen(xslt) = %d, want 4", got)
	}
}

func TestBindTable_ReportsAllMissing(t *testing.T) {
	var table struct {
		CreateIsolate func() int32 `symbol:"graal_create_isolate"`
		GC            func(uintptr) `symbol:"j_gc"`
	}
	lookup := func(name string) (uintptr, error) {
		return 0, &SymbolError{Symbol: name}
	}

	err := BindTable(lookup, &table)
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("err = %v, want ErrSymbolNotFound", err)
	}
	for _, name := range []string{"graal_create_isolate", "j_gc"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q missing %s", err, name)
		}
	}
}

func TestBindTable_InvalidTable(t *testing.T) {
	lookup := func(string) (uintptr, error) { return 0x1000, nil }

	var notStruct int
	if err := BindTable(lookup, &notStruct); err == nil {
		t.Error("pointer to int accepted")
	}

	var badField struct {
		Version string `symbol:"version"`
	}
	if err := BindTable(lookup, &badField); err == nil {
		t.Error("non-func field accepted")
	}
}
