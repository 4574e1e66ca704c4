package ffi

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

// Resolver turns a logical library name into candidate files on disk.
type Resolver struct {
	rid RuntimeIdentifier
}

// NewResolver returns a resolver using the naming convention of rid.
func NewResolver(rid RuntimeIdentifier) *Resolver {
	return &Resolver{rid: rid}
}

// RID returns the runtime identifier the resolver names files for.
func (r *Resolver) RID() RuntimeIdentifier {
	return r.rid
}

// Resolve returns the highest priority candidate for name, or a *LoadError
// wrapping ErrLibraryNotFound that lists the roots searched.
func (r *Resolver) Resolve(name string, roots []string) (string, error) {
	candidates := r.Candidates(name, roots)
	if len(candidates) == 0 {
		return "", r.notFound(name, roots)
	}
	return candidates[0], nil
}

// Candidates lists every existing file for name across roots in priority order.
// Within a root the exact file name comes first, followed by versioned files
// (libfoo.so.12.8.0, libfoo.1.2.dylib) ordered by descending version.
// Missing roots are skipped.
func (r *Resolver) Candidates(name string, roots []string) []string {
	exactName := r.rid.LibraryFileName(name)

	var out []string
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if !os.IsNotExist(err) {
				Logger().Debug("skipping unreadable search root", zap.String("root", root), zap.Error(err))
			}
			continue
		}

		exact := filepath.Join(root, exactName)
		if isFile(exact) {
			out = append(out, exact)
		}

		var versioned []versionedFile
		for _, entry := range entries {
			fileName := entry.Name()
			if fileName == exactName {
				continue
			}
			version, ok := r.versionSuffix(name, fileName)
			if !ok {
				continue
			}
			path := filepath.Join(root, fileName)
			if !isFile(path) {
				continue
			}
			versioned = append(versioned, versionedFile{path: path, version: version})
		}
		sortVersioned(versioned)
		for _, v := range versioned {
			out = append(out, v.path)
		}
	}
	return out
}

// StableName returns the unversioned file name the loader expects for name.
func (r *Resolver) StableName(name string) string {
	return r.rid.LibraryFileName(name)
}

// IsVersioned reports whether path is a versioned artifact of name.
func (r *Resolver) IsVersioned(name, path string) bool {
	_, ok := r.versionSuffix(name, filepath.Base(path))
	return ok
}

func (r *Resolver) notFound(name string, roots []string) error {
	return &LoadError{
		Kind:     ErrLibraryNotFound,
		Library:  name,
		Roots:    append([]string(nil), roots...),
		Platform: r.rid.String(),
	}
}

// versionSuffix matches {prefix}{name}{ext}.{version} and {prefix}{name}.{version}{ext}.
func (r *Resolver) versionSuffix(name, fileName string) (string, bool) {
	stem := r.rid.NamePrefix() + name
	ext := r.rid.FileExtension()
	if r.rid.OS == OSWindows {
		fileName = strings.ToLower(fileName)
		stem = strings.ToLower(stem)
	}

	if rest, ok := strings.CutPrefix(fileName, stem+ext+"."); ok && rest != "" {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(fileName, stem+"."); ok {
		if version, ok := strings.CutSuffix(rest, ext); ok && version != "" {
			return version, true
		}
	}
	return "", false
}

type versionedFile struct {
	path    string
	version string
}

// sortVersioned orders parseable versions newest first, then the rest lexicographically.
func sortVersioned(files []versionedFile) {
	sort.SliceStable(files, func(i, j int) bool {
		vi, vj := "v"+files[i].version, "v"+files[j].version
		okI, okJ := semver.IsValid(vi), semver.IsValid(vj)
		switch {
		case okI && okJ:
			if c := semver.Compare(vi, vj); c != 0 {
				return c > 0
			}
			return files[i].version < files[j].version
		case okI != okJ:
			return okI
		default:
			return files[i].version < files[j].version
		}
	})
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
