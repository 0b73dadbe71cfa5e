// Package pathops is the filesystem boundary of the lookup engine. Everything
// the engine knows about files goes through FS; SplitPath and FileName are the
// pure path helpers shared by every implementation.
package pathops

import (
	"path/filepath"
	"strings"
)

// FS answers existence questions and finds files by exact name. Failed checks
// (missing paths, permission errors) report false or no matches, never an error.
type FS interface {
	// Readable reports whether path is a regular file that can be opened.
	Readable(path string) bool
	// IsDir reports whether path is an existing directory.
	IsDir(path string) bool
	// Exists reports whether path exists as a file or a directory.
	Exists(path string) bool
	// Glob returns every regular file below root, at any depth, whose final
	// component is exactly FileName(baseName, extension). Results are sorted.
	Glob(root, baseName, extension string) []string
}

// SplitPath breaks path into its base name, extension and parent directory.
// The extension is the text after the last dot of the final component, so
// "a.b.c" yields base "a.b" and extension "c". A name without a dot has an
// empty extension.
func SplitPath(path string) (baseName, extension, directory string) {
	directory = filepath.Dir(path)
	name := filepath.Base(path)

	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name, "", directory
	}

	return name[:idx], name[idx+1:], directory
}

// FileName joins a base name and extension back into a file name.
func FileName(baseName, extension string) string {
	if extension == "" {
		return baseName
	}
	return baseName + "." + extension
}

// IsWithin reports whether path is root itself or lies below it.
func IsWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
