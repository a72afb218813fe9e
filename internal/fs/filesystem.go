// Package fs provides the real-filesystem implementation of
// flist.FilesystemManager.
package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"filelist-go/internal/flist"
)

// OSFilesystemManager performs actual filesystem operations using the
// os package.
type OSFilesystemManager struct{}

func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// Resolve validates a raw path and returns it as a cleaned absolute path.
func (m *OSFilesystemManager) Resolve(rawPath string) (string, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	if _, err := os.Lstat(absPath); err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}
	return absPath, nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Stat returns file info without following symlinks, so the scanner
// can annotate links rather than hash their targets.
func (m *OSFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// Walk walks the tree rooted at root in lexical order.
func (m *OSFilesystemManager) Walk(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// Compile-time check that OSFilesystemManager implements flist.FilesystemManager
var _ flist.FilesystemManager = (*OSFilesystemManager)(nil)
