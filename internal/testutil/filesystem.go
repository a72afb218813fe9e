package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"filelist-go/internal/flist"
)

// MockFile represents one entry in the mock filesystem.
type MockFile struct {
	Content []byte
	Mode    fs.FileMode
	ModTime time.Time
	// OpenErr is returned by Open, simulating a permission failure.
	OpenErr error
	// ReadErr (directories only) makes the walk report the directory
	// as unreadable and skip its subtree.
	ReadErr error
}

// MockFilesystemManager is an in-memory filesystem for testing. Paths
// are absolute and use forward slashes; entries have a fixed default
// modification time so scans are deterministic.
type MockFilesystemManager struct {
	files map[string]*MockFile
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files: make(map[string]*MockFile),
	}
}

// defaultModTime keeps mock entries deterministic across runs.
var defaultModTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)

// AddFile adds a regular file to the mock filesystem, creating parent
// directories along the way.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.addParents(path)
	m.files[path] = &MockFile{
		Content: content,
		Mode:    0644,
		ModTime: defaultModTime,
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.addParents(path)
	m.files[path] = &MockFile{
		Mode:    fs.ModeDir | 0755,
		ModTime: defaultModTime,
	}
}

// AddSymlink adds a symbolic link entry.
func (m *MockFilesystemManager) AddSymlink(path string) {
	m.addParents(path)
	m.files[path] = &MockFile{
		Mode:    fs.ModeSymlink | 0777,
		ModTime: defaultModTime,
	}
}

// AddNamedPipe adds a named pipe entry.
func (m *MockFilesystemManager) AddNamedPipe(path string) {
	m.addParents(path)
	m.files[path] = &MockFile{
		Mode:    fs.ModeNamedPipe | 0644,
		ModTime: defaultModTime,
	}
}

// File returns the entry at path for per-test tweaks (OpenErr, ModTime).
func (m *MockFilesystemManager) File(path string) *MockFile {
	return m.files[path]
}

// Remove deletes an entry, simulating a file vanishing mid-scan.
func (m *MockFilesystemManager) Remove(path string) {
	delete(m.files, path)
}

func (m *MockFilesystemManager) addParents(path string) {
	for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if _, ok := m.files[dir]; !ok {
			m.files[dir] = &MockFile{
				Mode:    fs.ModeDir | 0755,
				ModTime: defaultModTime,
			}
		}
	}
}

func (m *MockFilesystemManager) Resolve(rawPath string) (string, error) {
	path := filepath.Clean(rawPath)
	if _, ok := m.files[path]; !ok {
		return "", fmt.Errorf("file not found: %s", path)
	}
	return path, nil
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	if file.Mode.IsDir() {
		return nil, fmt.Errorf("cannot open directory: %s", path)
	}
	if file.OpenErr != nil {
		return nil, file.OpenErr
	}
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return newMockFileInfo(path, file), nil
}

// Walk visits root and everything under it in lexical order, mirroring
// filepath.WalkDir: unreadable directories are reported through fn with
// a nil entry and their subtree skipped.
func (m *MockFilesystemManager) Walk(root string, fn fs.WalkDirFunc) error {
	if _, ok := m.files[root]; !ok {
		return fn(root, nil, fmt.Errorf("file not found: %s", root))
	}

	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		if p == root || strings.HasPrefix(p, root+"/") {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	skip := ""
	for _, p := range paths {
		if skip != "" && strings.HasPrefix(p, skip) {
			continue
		}
		file := m.files[p]

		if file.Mode.IsDir() && file.ReadErr != nil {
			if err := fn(p, nil, file.ReadErr); err != nil {
				return err
			}
			skip = p + "/"
			continue
		}

		err := fn(p, fs.FileInfoToDirEntry(newMockFileInfo(p, file)), nil)
		if err == fs.SkipDir {
			if file.Mode.IsDir() {
				skip = p + "/"
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name     string
	size     int64
	mode     fs.FileMode
	modTime  time.Time
	mockFile *MockFile
}

func newMockFileInfo(path string, file *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:     filepath.Base(path),
		size:     int64(len(file.Content)),
		mode:     file.Mode,
		modTime:  file.ModTime,
		mockFile: file,
	}
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.mode.IsDir() }
func (m *mockFileInfo) Sys() any           { return m.mockFile }

// Compile-time check
var _ flist.FilesystemManager = (*MockFilesystemManager)(nil)
