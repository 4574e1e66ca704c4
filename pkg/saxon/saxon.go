// Package saxon is a thin XSLT 3.0 façade over the SaxonC native libraries.
//
// A Runtime binds the native symbol table once; each Processor owns a native
// isolate whose calls all run on one locked OS thread.
//
//	reg := ffi.NewRegistry(ffi.NewResolver(rid), ffi.NewSystemLoader(), roots)
//	rt, err := saxon.Open(reg, saxon.Options{})
//	proc, err := rt.NewProcessor(true)
//	defer proc.Close()
//	xslt, err := proc.NewXsltProcessor()
//	err = xslt.CompileStylesheet("books.xsl")
//	err = xslt.TransformToFile("books.xml", "books.html")
package saxon

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/thesyncim/libgosaxonc/internal/ffi"
)

var (
	// ErrClosed is returned when a closed Processor is used.
	ErrClosed = errors.New("saxon: processor closed")

	// ErrNotCompiled is returned when transforming before a stylesheet was compiled.
	ErrNotCompiled = errors.New("saxon: no stylesheet compiled")
)

// NativeError carries the diagnostic reported by the engine for a failed call.
type NativeError struct {
	Op      string
	Message string
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("saxon: %s failed: %s", e.Op, e.Message)
}

// Options selects the libraries to load. Empty names use the SaxonC defaults.
type Options struct {
	CoreLibrary string
	MainLibrary string
}

// Runtime holds the bound SaxonC symbol table.
type Runtime struct {
	api *nativeAPI
}

// Open loads the core library and then the main library into reg and binds the
// symbol table against the loaded handles.
func Open(reg *ffi.Registry, opts Options) (*Runtime, error) {
	if err := reg.EnsureLoaded(ffi.DefaultLibraries(opts.CoreLibrary, opts.MainLibrary)...); err != nil {
		return nil, err
	}
	var api nativeAPI
	if err := ffi.BindTable(reg.Lookup, &api); err != nil {
		return nil, fmt.Errorf("saxon: binding native symbols: %w", err)
	}
	return &Runtime{api: &api}, nil
}

// Processor owns a native isolate and a SaxonC processor.
type Processor struct {
	api    *nativeAPI
	thread *osThread

	mu      sync.Mutex
	closed  bool
	isolate uintptr
	isoThr  uintptr
	handle  uintptr
}

// NewProcessor creates an isolate and a processor inside it. licensed is
// passed through to the engine unchanged.
func (rt *Runtime) NewProcessor(licensed bool) (*Processor, error) {
	p := &Processor{api: rt.api, thread: startOSThread()}

	var err error
	p.thread.do(func() {
		if rc := p.api.CreateIsolate(0, &p.isolate, &p.isoThr); rc != 0 || p.isoThr == 0 {
			err = &NativeError{Op: "create isolate", Message: fmt.Sprintf("status %d", rc)}
			return
		}
		license := int32(0)
		if licensed {
			license = 1
		}
		p.handle = p.api.CreateSaxonProcessor(p.isoThr, license)
		if p.handle == 0 {
			err = p.lastError("create processor")
		}
	})
	if err != nil {
		p.thread.stop()
		return nil, err
	}
	Logger().Debug("created saxon processor", zap.Bool("licensed", licensed))
	return p, nil
}

// call runs fn on the processor's OS thread unless the processor is closed.
func (p *Processor) call(fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.thread.do(fn)
	return nil
}

// lastError must run on the processor thread.
func (p *Processor) lastError(op string) *NativeError {
	msg := ffi.GoString(p.api.GetErrorMessage(p.isoThr))
	if msg == "" {
		msg = "unknown error"
	}
	return &NativeError{Op: op, Message: msg}
}

// NewXsltProcessor creates an XSLT 3.0 processor.
func (p *Processor) NewXsltProcessor() (*XsltProcessor, error) {
	x := &XsltProcessor{proc: p}
	var nerr error
	err := p.call(func() {
		x.handle = p.api.CreateXslt30Processor(p.isoThr)
		if x.handle == 0 {
			nerr = p.lastError("create XSLT processor")
		}
	})
	if err != nil {
		return nil, err
	}
	if nerr != nil {
		return nil, nerr
	}
	return x, nil
}

// Close runs the engine's collector and stops the processor thread. It is safe
// to call more than once.
func (p *Processor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.thread.do(func() {
		p.api.GC(p.isoThr)
	})
	p.thread.stop()
	p.handle = 0
	return nil
}

// XsltProcessor compiles one stylesheet and runs transformations with it.
type XsltProcessor struct {
	proc       *Processor
	handle     uintptr
	executable uintptr
}

// CompileStylesheet compiles the stylesheet file at path, replacing any
// previously compiled stylesheet.
func (x *XsltProcessor) CompileStylesheet(path string) error {
	p := x.proc
	var nerr error
	err := p.call(func() {
		exe := p.api.CompileFromFile(p.isoThr, x.handle, path, nil, 0)
		if exe == 0 {
			nerr = p.lastError("compile " + path)
			return
		}
		x.executable = exe
	})
	if err != nil {
		return err
	}
	return nerr
}

// TransformToFile transforms source with the compiled stylesheet and writes output.
func (x *XsltProcessor) TransformToFile(source, output string) error {
	return x.transform("transform "+source, func(p *Processor) uintptr {
		return p.api.TransformToFile(p.isoThr, ffi.CStringPtr(output), x.executable, source, nil, nil)
	})
}

// TransformToValue transforms source with the compiled stylesheet, keeping the
// result inside the engine.
func (x *XsltProcessor) TransformToValue(source string) error {
	return x.transform("transform "+source, func(p *Processor) uintptr {
		return p.api.TransformToValue(p.isoThr, x.executable, source, nil)
	})
}

func (x *XsltProcessor) transform(op string, fn func(p *Processor) uintptr) error {
	p := x.proc
	var nerr error
	err := p.call(func() {
		if x.executable == 0 {
			nerr = ErrNotCompiled
			return
		}
		if fn(p) == 0 {
			nerr = p.lastError(op)
		}
	})
	if err != nil {
		return err
	}
	return nerr
}
