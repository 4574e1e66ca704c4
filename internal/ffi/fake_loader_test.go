package ffi

import (
	"errors"
	"path/filepath"
	"sync"
)

var testRID = RuntimeIdentifier{OS: OSLinux, Arch: ArchX64, Libc: LibcGlibc}

// fakeLoader records loader calls. Paths listed in fail are rejected; symbols
// are keyed by "<file base name>:<symbol>".
type fakeLoader struct {
	mu        sync.Mutex
	next      Handle
	loads     []string
	globals   []bool
	unloads   []Handle
	open      map[Handle]string
	fail      map[string]error
	unloadErr error
	symbols   map[string]uintptr
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		open:    make(map[Handle]string),
		fail:    make(map[string]error),
		symbols: make(map[string]uintptr),
	}
}

func (f *fakeLoader) Load(path string, global bool) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, path)
	f.globals = append(f.globals, global)
	if err := f.fail[path]; err != nil {
		return 0, err
	}
	f.next++
	f.open[f.next] = path
	return f.next, nil
}

func (f *fakeLoader) Unload(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unloads = append(f.unloads, h)
	delete(f.open, h)
	return f.unloadErr
}

func (f *fakeLoader) Symbol(h Handle, name string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path, ok := f.open[h]
	if !ok {
		return 0, ErrNotLoaded
	}
	addr, ok := f.symbols[filepath.Base(path)+":"+name]
	if !ok {
		return 0, errors.New("undefined symbol: " + name)
	}
	return addr, nil
}

func (f *fakeLoader) loadCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.loads {
		if p == path {
			n++
		}
	}
	return n
}

func (f *fakeLoader) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.open)
}
