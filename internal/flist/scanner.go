package flist

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// timeLayout is the timestamp format stored in last_modified and the
// db_info columns. Modification times are truncated to whole seconds,
// never rounded, so repeated scans of an unchanged tree agree.
const timeLayout = "2006-01-02 15:04:05"

// Scanner enumerates a directory tree and gathers per-file metadata.
// It never aborts the whole scan for a single unreadable file or
// directory; those are logged and counted by the caller.
type Scanner struct {
	fsmgr FilesystemManager
	log   Logger
}

func NewScanner(fsmgr FilesystemManager, log Logger) *Scanner {
	return &Scanner{fsmgr: fsmgr, log: log}
}

// Enumerate walks the tree rooted at root and returns the paths to
// record, the total byte size of the regular files among them, and the
// counts of entries and directories that had to be skipped.
//
// Symlinks and named pipes are included in the result; they become rows
// with an error annotation and empty digests. Other special files
// (devices, sockets) are skipped with a warning. An unreadable
// subdirectory is logged and its subtree skipped.
func (s *Scanner) Enumerate(root string) (files []string, totalBytes int64, skippedFiles, skippedDirs int) {
	walkErr := s.fsmgr.Walk(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("cannot read directory", "path", path, "error", err)
			skippedDirs++
			return nil
		}
		if d.IsDir() {
			return nil
		}

		switch t := d.Type(); {
		case t.IsRegular():
			info, err := d.Info()
			if err != nil {
				s.log.Warn("cannot stat file", "path", path, "error", err)
				skippedFiles++
				return nil
			}
			totalBytes += info.Size()
			files = append(files, path)
		case t&fs.ModeSymlink != 0, t&fs.ModeNamedPipe != 0:
			files = append(files, path)
		default:
			s.log.Warn("not a valid file", "path", path, "type", t.String())
			skippedFiles++
		}
		return nil
	})
	if walkErr != nil {
		// Walk only returns an error from our callback, which never
		// produces one, or from reading the root itself.
		s.log.Warn("walk stopped", "path", root, "error", walkErr)
		skippedDirs++
	}
	return files, totalBytes, skippedFiles, skippedDirs
}

// FileInfo gathers the metadata recorded for one file. trim is the
// trim-parent offset applied to the directory path (0 when inactive).
//
// A stat failure (the file vanished between enumeration and hashing)
// returns an error and no record. Special files, empty files, and
// hashing failures return a record whose Err annotation is stored with
// empty digests.
func (s *Scanner) FileInfo(path string, trim int) (*FileInfo, error) {
	fi := &FileInfo{
		Name:    filepath.Base(path),
		DirName: trimPath(filepath.Dir(path), trim),
	}

	info, err := s.fsmgr.Stat(path)
	if err != nil {
		return nil, err
	}

	switch mode := info.Mode(); {
	case mode&fs.ModeSymlink != 0:
		fi.Err = "(link)"
		return fi, nil
	case mode&fs.ModeNamedPipe != 0:
		fi.Err = "(named pipe)"
		return fi, nil
	case !mode.IsRegular():
		fi.Err = "(" + mode.Type().String() + ")"
		return fi, nil
	}

	fi.DirLevel = int64(strings.Count(fi.DirName, string(os.PathSeparator)))
	fi.Size = info.Size()
	fi.Modified = info.ModTime().Truncate(time.Second).Format(timeLayout)

	if fi.Size == 0 {
		fi.Err = "(empty file)"
		return fi, nil
	}

	f, err := s.fsmgr.Open(path)
	if err != nil {
		fi.Err = err.Error()
		s.log.Warn("cannot open file", "path", path, "error", err)
		return fi, nil
	}
	defer f.Close()

	sha1Hex, md5Hex, err := Digests(f)
	if err != nil {
		// Content may be actively changing; record the failure, no retry.
		fi.Err = err.Error()
		s.log.Warn("hashing failed", "path", path, "error", err)
		return fi, nil
	}

	fi.SHA1 = sha1Hex
	fi.MD5 = md5Hex
	return fi, nil
}

// Warning reports whether Err records an I/O problem rather than a
// benign annotation such as "(empty file)" or "(link)".
func (fi *FileInfo) Warning() bool {
	switch fi.Err {
	case "", "(empty file)", "(link)", "(named pipe)":
		return false
	}
	return true
}
