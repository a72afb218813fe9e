package flist

import (
	"io"
	"io/fs"
	"path/filepath"
)

// FilesystemManager abstracts filesystem access so the scanner can be
// tested without touching the real filesystem.
type FilesystemManager interface {
	// Resolve validates a raw path, returning it as a cleaned absolute
	// path. The path must exist.
	Resolve(rawPath string) (string, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Stat returns file info for a path without following symlinks.
	Stat(path string) (fs.FileInfo, error)

	// Walk walks the tree rooted at root in lexical order, calling fn
	// for every entry, mirroring filepath.WalkDir semantics. A fn error
	// of fs.SkipDir skips the remainder of that directory.
	Walk(root string, fn fs.WalkDirFunc) error
}

// trimStart returns the number of leading characters to remove from
// stored directory paths when trim-parent mode is active: the length of
// the scan root's parent plus one separator, so paths become relative
// to the scan root's parent. The filesystem root already ends with the
// separator, so no extra character is added for it.
func trimStart(scanDir string) int {
	parent := filepath.Dir(scanDir)
	if parent == string(filepath.Separator) {
		return len(parent)
	}
	return len(parent) + 1
}

// trimPath applies a trim offset to a directory path.
func trimPath(path string, start int) string {
	if start <= 0 || start > len(path) {
		return path
	}
	return path[start:]
}
