package ffi

import (
	"runtime"
	"testing"
	"unsafe"
)

func TestCStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "saxon", "/opt/saxon/libsaxonc-ee.so.12.8.0"} {
		b := CString(s)
		if len(b) != len(s)+1 || b[len(s)] != 0 {
			t.Fatalf("CString(%q) not null-terminated: %v", s, b)
		}
		if got := GoString(uintptr(unsafe.Pointer(&b[0]))); got != s {
			t.Errorf("GoString(CString(%q)) = %q", s, got)
		}
		runtime.KeepAlive(b)
	}
}

func TestGoStringNull(t *testing.T) {
	if got := GoString(0); got != "" {
		t.Errorf("GoString(0) = %q, want empty", got)
	}
}

func TestGoStringStopsAtNull(t *testing.T) {
	buf := []byte("main\x00core")
	if got := GoString(uintptr(unsafe.Pointer(&buf[0]))); got != "main" {
		t.Errorf("GoString = %q, want main", got)
	}
	runtime.KeepAlive(buf)
}
