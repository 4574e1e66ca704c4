package ffi

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// linkerPathVar returns the dynamic linker search path variable for rid.
func linkerPathVar(rid RuntimeIdentifier) string {
	switch rid.OS {
	case OSWindows:
		return "PATH"
	case OSMacOS:
		return "DYLD_LIBRARY_PATH"
	default:
		return "LD_LIBRARY_PATH"
	}
}

// addLibraryDirToEnv prepends dir to the linker search path variable so the
// library's own dependencies resolve from the same directory.
func addLibraryDirToEnv(rid RuntimeIdentifier, dir string) {
	if dir == "" {
		return
	}

	envVar := linkerPathVar(rid)
	existing := os.Getenv(envVar)
	if pathListHasDir(existing, dir) {
		return
	}

	value := dir
	if existing != "" {
		value = dir + string(filepath.ListSeparator) + existing
	}
	if err := os.Setenv(envVar, value); err != nil {
		Logger().Warn("cannot update linker search path", zap.String("var", envVar), zap.Error(err))
	}
}

func pathListHasDir(list, dir string) bool {
	for _, entry := range filepath.SplitList(list) {
		if entry == dir {
			return true
		}
	}
	return false
}

// snapshotEnv returns a func that puts key back to its current value, or unsets
// it if it is not set now.
func snapshotEnv(key string) func() error {
	value, ok := os.LookupEnv(key)
	return func() error {
		if !ok {
			return os.Unsetenv(key)
		}
		return os.Setenv(key, value)
	}
}
