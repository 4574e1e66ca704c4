package ffi

import (
	"fmt"
	"runtime"
	"strings"
)

// LoadError is the structured failure returned by resolution and initialization.
// Kind is one of the package sentinels and matches with errors.Is.
type LoadError struct {
	Kind     error    // ErrLibraryNotFound, ErrLibraryLoadFailed, ...
	Library  string   // logical library name
	Path     string   // candidate that failed to load, if any
	Roots    []string // search roots examined, in priority order
	Platform string   // RID or GOOS/GOARCH
	Artifact string   // detected file type of Path, if sniffed
	Err      error    // platform error detail
	Rollback error    // secondary failure while unwinding a partial initialization
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s on %s", e.Kind, e.Library, e.platform())
	if e.Path != "" {
		fmt.Fprintf(&b, " (path: %s", e.Path)
		if e.Artifact != "" {
			fmt.Fprintf(&b, ", type: %s", e.Artifact)
		}
		b.WriteByte(')')
	}
	if len(e.Roots) > 0 {
		fmt.Fprintf(&b, " [searched: %s]", strings.Join(e.Roots, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Rollback != nil {
		fmt.Fprintf(&b, " (rollback: %v)", e.Rollback)
	}
	return b.String()
}

// Unwrap exposes the kind sentinel, the platform cause and the rollback failure.
func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, 3)
	for _, err := range []error{e.Kind, e.Err, e.Rollback} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (e *LoadError) platform() string {
	if e.Platform != "" {
		return e.Platform
	}
	return runtime.GOOS + "/" + runtime.GOARCH
}

// SymbolError reports a symbol that could not be resolved.
type SymbolError struct {
	Library string
	Symbol  string
	Err     error
}

func (e *SymbolError) Error() string {
	lib := e.Library
	if lib == "" {
		lib = "<handle>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %s in %s: %v", ErrSymbolNotFound, e.Symbol, lib, e.Err)
	}
	return fmt.Sprintf("%v: %s in %s", ErrSymbolNotFound, e.Symbol, lib)
}

func (e *SymbolError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSymbolNotFound, e.Err}
	}
	return []error{ErrSymbolNotFound}
}
