package ffi

import (
	"os"
	"path/filepath"
)

// macOS directories searched after the bundled and user-supplied roots.
var darwinSystemLibraryDirs = []string{
	"/usr/local/lib",
	"/opt/homebrew/lib",
}

// SearchOptions describes where an application keeps its native binaries.
type SearchOptions struct {
	// BaseDir is the application base directory. Defaults to the executable's directory.
	BaseDir string
	// OverrideDirs are user-supplied directories placed after the bundled roots.
	OverrideDirs []string
	// EnvLibraryDir comes from the environment and is always searched last.
	EnvLibraryDir string
	// SkipSystemDirs leaves out the well-known macOS library directories.
	SkipSystemDirs bool
}

// NativeDir returns {base}/runtimes/{rid}/native.
func NativeDir(base string, rid RuntimeIdentifier) string {
	return filepath.Join(base, "runtimes", rid.String(), "native")
}

// DefaultSearchRoots returns the search roots in priority order:
// the RID-specific native directory, the base directory, user overrides,
// on macOS the system library directories, then the environment directory.
// Duplicates keep their first position.
func DefaultSearchRoots(rid RuntimeIdentifier, opts SearchOptions) []string {
	base := ApplicationDir(opts.BaseDir)
	roots := []string{NativeDir(base, rid), base}
	roots = append(roots, opts.OverrideDirs...)
	if rid.OS == OSMacOS && !opts.SkipSystemDirs {
		roots = append(roots, darwinSystemLibraryDirs...)
	}
	if opts.EnvLibraryDir != "" {
		roots = append(roots, opts.EnvLibraryDir)
	}
	return dedupeRoots(roots)
}

// ApplicationDir returns base, or the executable's directory when base is empty.
func ApplicationDir(base string) string {
	if base != "" {
		return base
	}
	return executableDir()
}

func executableDir() string {
	if execPath, err := os.Executable(); err == nil {
		return filepath.Dir(execPath)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func dedupeRoots(roots []string) []string {
	seen := make(map[string]struct{}, len(roots))
	out := make([]string, 0, len(roots))
	for _, root := range roots {
		if root == "" {
			continue
		}
		key := filepath.Clean(root)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, root)
	}
	return out
}
