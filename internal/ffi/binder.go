package ffi

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ebitengine/purego"
)

// BoundSymbol is a native function bound to a Go signature. Call must not be
// used after the library that exports it has been unloaded.
type BoundSymbol[F any] struct {
	Name    string
	Address uintptr
	Call    F
}

// Bind resolves name in the library behind h and returns it as a callable of type F,
// which must be a func type purego can marshal.
func Bind[F any](loader Loader, h Handle, name string) (*BoundSymbol[F], error) {
	addr, err := loader.Symbol(h, name)
	if err != nil || addr == 0 {
		return nil, &SymbolError{Symbol: name, Err: err}
	}
	return BindAddress[F](name, addr)
}

// BindAddress wraps a raw function address as a callable of type F.
func BindAddress[F any](name string, addr uintptr) (*BoundSymbol[F], error) {
	if addr == 0 {
		return nil, &SymbolError{Symbol: name}
	}
	sym := &BoundSymbol[F]{Name: name, Address: addr}
	if err := registerFunc(&sym.Call, addr); err != nil {
		return nil, fmt.Errorf("bind %s: %w", name, err)
	}
	return sym, nil
}

// SymbolLookup resolves a symbol name to an address.
type SymbolLookup func(name string) (uintptr, error)

// BindTable fills the func fields of the struct pointed to by table. Each field
// names its symbol with a `symbol:"name"` tag; untagged fields are left alone.
// All missing symbols are reported together.
func BindTable(lookup SymbolLookup, table any) error {
	v := reflect.ValueOf(table)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind table: want pointer to struct, got %T", table)
	}
	v = v.Elem()
	t := v.Type()

	var errs []error
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, ok := field.Tag.Lookup("symbol")
		if !ok {
			continue
		}
		if field.Type.Kind() != reflect.Func {
			return fmt.Errorf("bind table: field %s is %s, want func", field.Name, field.Type)
		}
		addr, err := lookup(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if addr == 0 {
			errs = append(errs, &SymbolError{Symbol: name})
			continue
		}
		if err := registerFunc(v.Field(i).Addr().Interface(), addr); err != nil {
			errs = append(errs, fmt.Errorf("bind %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// registerFunc converts purego's panics on unsupported signatures into errors.
func registerFunc(fptr any, addr uintptr) (err error) {
	t := reflect.TypeOf(fptr)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Func {
		return fmt.Errorf("want pointer to func, got %T", fptr)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unsupported signature %s: %v", t.Elem(), r)
		}
	}()
	purego.RegisterFunc(fptr, addr)
	return nil
}
