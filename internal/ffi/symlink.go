package ffi

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Linker creates a symbolic link named link pointing at target.
type Linker interface {
	Symlink(target, link string) error
}

// LinkerFunc adapts a function to Linker.
type LinkerFunc func(target, link string) error

func (f LinkerFunc) Symlink(target, link string) error {
	return f(target, link)
}

// OSLinker links through os.Symlink.
var OSLinker Linker = LinkerFunc(os.Symlink)

var errLinkConflict = errors.New("stable name already exists")

// Stabilize links stableName, in the directory of versionedPath, to the versioned
// artifact and returns the path to load. Any failure is logged and the versioned
// path is returned unchanged.
func Stabilize(linker Linker, versionedPath, stableName string) string {
	dir := filepath.Dir(versionedPath)
	link := filepath.Join(dir, stableName)
	if link == versionedPath {
		return versionedPath
	}

	log := Logger().With(zap.String("target", versionedPath), zap.String("link", link))
	if _, err := os.Lstat(link); err == nil {
		log.Warn("symlink not created", zap.Error(errLinkConflict))
		return versionedPath
	}

	// Relative target keeps the link valid if the directory is moved.
	if err := linker.Symlink(filepath.Base(versionedPath), link); err != nil {
		log.Warn("symlink not created, loading versioned file", zap.Error(err))
		return versionedPath
	}
	log.Debug("created stable symlink")
	return link
}
