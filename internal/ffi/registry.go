package ffi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Registry owns the native libraries loaded by the process. Construct one at
// startup, share it by reference and Close it at shutdown. A library is loaded
// at most once per Registry; concurrent EnsureLoaded calls serialize on one lock
// and observe the same LoadedLibrary values.
type Registry struct {
	mu       sync.RWMutex
	resolver *Resolver
	loader   Loader
	roots    []string
	linker   Linker
	augment  bool
	log      *zap.Logger

	libs  map[string]*LoadedLibrary
	order []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithLinker replaces the symlink capability used to stabilize versioned artifacts.
// A nil linker disables stabilization.
func WithLinker(l Linker) Option {
	return func(r *Registry) { r.linker = l }
}

// WithLinkerPathAugmentation toggles prepending each library's directory to the
// dynamic linker search path variable before loading it.
func WithLinkerPathAugmentation(enabled bool) Option {
	return func(r *Registry) { r.augment = enabled }
}

// WithLogger sets the registry logger. Defaults to the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty registry that resolves libraries in roots.
func NewRegistry(resolver *Resolver, loader Loader, roots []string, opts ...Option) *Registry {
	r := &Registry{
		resolver: resolver,
		loader:   loader,
		roots:    append([]string(nil), roots...),
		linker:   OSLinker,
		augment:  true,
		log:      Logger(),
		libs:     make(map[string]*LoadedLibrary),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Roots returns the search roots in priority order.
func (r *Registry) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Loader returns the loader used for loads and symbol lookups.
func (r *Registry) Loader() Loader {
	return r.loader
}

// EnsureLoaded loads every spec not yet loaded, strictly in the given order.
// Already loaded libraries are skipped, so repeated calls are no-ops. When a
// required library fails, every library loaded by this call is unloaded in
// reverse order, its stable-name symlinks are removed and the linker search
// path variable is restored before the *LoadError is returned.
func (r *Registry) EnsureLoaded(specs ...LibrarySpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	attempt := &loadAttempt{}
	if r.augment {
		attempt.restoreEnv = snapshotEnv(linkerPathVar(r.resolver.RID()))
	}
	for _, spec := range specs {
		if _, ok := r.libs[spec.Name]; ok {
			continue
		}

		lib, link, loadErr := r.load(spec)
		if loadErr != nil {
			if !spec.Required {
				r.log.Warn("optional native library not loaded", zap.String("library", spec.Name), zap.Error(loadErr))
				continue
			}
			loadErr.Rollback = r.rollback(attempt)
			r.log.Error("native library initialization failed", zap.Error(loadErr))
			return loadErr
		}

		r.libs[spec.Name] = lib
		r.order = append(r.order, spec.Name)
		attempt.libs = append(attempt.libs, lib)
		if link != "" {
			attempt.links = append(attempt.links, link)
		}
		r.log.Info("loaded native library",
			zap.String("library", lib.Name),
			zap.String("path", lib.Path),
			zap.Bool("global", spec.Global))
	}
	return nil
}

// loadAttempt records what one EnsureLoaded call changed, so a failure can undo it.
type loadAttempt struct {
	libs       []*LoadedLibrary
	links      []string // stable-name symlinks created for libs
	restoreEnv func() error
}

// load tries each candidate in priority order until the loader accepts one. The
// returned link is the stable-name symlink created for the library, if any.
func (r *Registry) load(spec LibrarySpec) (*LoadedLibrary, string, *LoadError) {
	rid := r.resolver.RID()
	candidates := r.resolver.Candidates(spec.Name, r.roots)
	if len(candidates) == 0 {
		return nil, "", &LoadError{
			Kind:     ErrLibraryNotFound,
			Library:  spec.Name,
			Roots:    r.Roots(),
			Platform: rid.String(),
		}
	}

	var errs error
	var lastPath string
	for _, path := range candidates {
		loadPath := path
		if spec.Symlink && r.linker != nil && rid.OS != OSWindows && r.resolver.IsVersioned(spec.Name, path) {
			loadPath = Stabilize(r.linker, path, r.resolver.StableName(spec.Name))
		}
		if r.augment {
			addLibraryDirToEnv(rid, filepath.Dir(path))
		}

		handle, err := r.loader.Load(loadPath, spec.Global)
		if err == nil && handle != 0 {
			var link string
			if loadPath != path {
				link = loadPath
			}
			return &LoadedLibrary{Name: spec.Name, Path: path, Handle: handle}, link, nil
		}
		if err == nil {
			err = errors.New("loader returned a null handle")
		}
		if loadPath != path {
			_ = os.Remove(loadPath)
		}

		r.log.Debug("candidate rejected by loader", zap.String("library", spec.Name), zap.String("path", path), zap.Error(err))
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
		lastPath = path
	}

	return nil, "", &LoadError{
		Kind:     ErrLibraryLoadFailed,
		Library:  spec.Name,
		Path:     lastPath,
		Roots:    r.Roots(),
		Platform: rid.String(),
		Artifact: ArtifactType(lastPath),
		Err:      errs,
	}
}

// rollback unloads the attempt's libraries in reverse order and removes them
// from the registry, deletes the symlinks created for them and restores the
// linker search path variable. Entries are removed even when unloading fails.
func (r *Registry) rollback(attempt *loadAttempt) error {
	var errs error
	for i := len(attempt.libs) - 1; i >= 0; i-- {
		lib := attempt.libs[i]
		if err := r.loader.Unload(lib.Handle); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unload %s: %w", lib.Name, err))
		}
		r.forget(lib.Name)
	}
	for _, link := range attempt.links {
		if err := os.Remove(link); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = multierr.Append(errs, fmt.Errorf("remove symlink: %w", err))
		}
	}
	if attempt.restoreEnv != nil {
		if err := attempt.restoreEnv(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("restore linker path: %w", err))
		}
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrRollbackFailed, errs)
	}
	return nil
}

func (r *Registry) forget(name string) {
	delete(r.libs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// Library returns the loaded library registered under name.
func (r *Registry) Library(name string) (*LoadedLibrary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lib, ok := r.libs[name]
	return lib, ok
}

// HandleFor returns the handle of a loaded library, or an error wrapping ErrNotLoaded.
func (r *Registry) HandleFor(name string) (Handle, error) {
	if lib, ok := r.Library(name); ok {
		return lib.Handle, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNotLoaded, name)
}

// Libraries returns the loaded libraries in load order.
func (r *Registry) Libraries() []LoadedLibrary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LoadedLibrary, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.libs[name])
	}
	return out
}

// Symbol resolves name in the library registered as library.
func (r *Registry) Symbol(library, name string) (uintptr, error) {
	handle, err := r.HandleFor(library)
	if err != nil {
		return 0, &SymbolError{Library: library, Symbol: name, Err: err}
	}
	addr, err := r.loader.Symbol(handle, name)
	if err != nil || addr == 0 {
		return 0, &SymbolError{Library: library, Symbol: name, Err: err}
	}
	return addr, nil
}

// Lookup resolves name in the loaded libraries, most recently loaded first.
func (r *Registry) Lookup(name string) (uintptr, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return 0, &SymbolError{Symbol: name, Err: ErrNotLoaded}
	}
	var errs error
	for i := len(r.order) - 1; i >= 0; i-- {
		lib := r.libs[r.order[i]]
		addr, err := r.loader.Symbol(lib.Handle, name)
		if err == nil && addr != 0 {
			return addr, nil
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", lib.Name, err))
		}
	}
	return 0, &SymbolError{Symbol: name, Err: errs}
}

// Close unloads every library in reverse load order and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs error
	for i := len(r.order) - 1; i >= 0; i-- {
		lib := r.libs[r.order[i]]
		if err := r.loader.Unload(lib.Handle); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unload %s: %w", lib.Name, err))
		}
	}
	r.libs = make(map[string]*LoadedLibrary)
	r.order = nil
	return errs
}
