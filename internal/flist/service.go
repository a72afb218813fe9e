package flist

import (
	"fmt"
	"os"
	"sort"
)

const (
	// AppName and AppVersion are recorded in every store's db_info row.
	AppName    = "flist"
	AppVersion = "2026.08.1"

	// StoreDBVersion is the schema version stamped into db_info. It must
	// match the latest store migration in internal/database.
	StoreDBVersion = 1

	// commitBatchSize is how many file rows are inserted per transaction.
	// An interrupted scan keeps all fully committed batches.
	commitBatchSize = 1024
)

// Service is the orchestration layer coordinating the scanner,
// directory index, and stores to perform the operations the CLI needs.
type Service struct {
	fsmgr FilesystemManager
	log   Logger
	clock Clock
}

func NewService(fsmgr FilesystemManager, log Logger, clock Clock) *Service {
	return &Service{fsmgr: fsmgr, log: log, clock: clock}
}

// ScanOptions control one scan invocation.
type ScanOptions struct {
	ScanDir      string
	Title        string
	TrimParent   bool
	UsedDirsOnly bool
}

// ScanSummary reports what a scan did, including the recoverable
// problems that were logged along the way.
type ScanSummary struct {
	FileCount    int
	DirCount     int
	TotalBytes   int64
	SkippedFiles int
	SkippedDirs  int
}

// Scan walks opts.ScanDir and records one row per file into a new
// store. openStore is called only when the tree holds at least one
// file, so an empty scan writes nothing. The store is closed before
// returning.
func (s *Service) Scan(opts ScanOptions, openStore func() (Store, error)) (*ScanSummary, error) {
	root, err := s.fsmgr.Resolve(opts.ScanDir)
	if err != nil {
		return nil, Fatalf(opts.ScanDir, "path not found (scandir)")
	}

	scanner := NewScanner(s.fsmgr, s.log)

	s.log.Info("scanning", "scandir", root)
	files, totalBytes, skippedFiles, skippedDirs := scanner.Enumerate(root)
	sort.Strings(files)

	sum := &ScanSummary{
		TotalBytes:   totalBytes,
		SkippedFiles: skippedFiles,
		SkippedDirs:  skippedDirs,
	}

	if len(files) == 0 {
		s.log.Info("no files found", "scandir", root)
		return sum, nil
	}

	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	trim := 0
	storedRoot := root
	if opts.TrimParent {
		trim = trimStart(root)
		storedRoot = trimPath(root, trim)
	}
	index := NewDirectoryIndex(storedRoot, !opts.UsedDirsOnly)

	host, _ := os.Hostname()
	started := s.clock.Now()
	err = store.PutInfo(&StoreInfo{
		Created:    started.Format(timeLayout),
		Host:       host,
		ScanDir:    root,
		Title:      opts.Title,
		PathSep:    string(os.PathSeparator),
		AllPaths:   !opts.UsedDirsOnly,
		DBVersion:  StoreDBVersion,
		AppName:    AppName,
		AppVersion: AppVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("writing store info: %w", err)
	}

	var completed int64
	nextID := int64(0)

	for _, path := range files {
		fi, err := scanner.FileInfo(path, trim)
		if err != nil {
			// The file vanished between enumeration and hashing.
			s.log.Warn("file skipped", "path", path, "error", err)
			sum.SkippedFiles++
			continue
		}
		if fi.Warning() {
			sum.SkippedFiles++
		}
		completed += fi.Size

		dirID, err := index.Intern(fi.DirName, store.InsertDirectory)
		if err != nil {
			return nil, fmt.Errorf("recording directory %s: %w", fi.DirName, err)
		}

		nextID++
		if err := store.InsertFile(nextID, fi, dirID); err != nil {
			return nil, fmt.Errorf("recording file %s: %w", path, err)
		}

		if nextID%commitBatchSize == 0 {
			if err := store.Flush(); err != nil {
				return nil, fmt.Errorf("committing batch: %w", err)
			}
		}

		pct, pctStr := PercentComplete(completed, totalBytes)
		s.log.Debug("file processed",
			"n", nextID, "of", len(files), "pct", pctStr,
			"eta", EstimatedFinish(pct, started, s.clock.Now()), "path", path)
	}

	if err := store.Flush(); err != nil {
		return nil, fmt.Errorf("committing final batch: %w", err)
	}
	if err := store.SetFinished(s.clock.Now().Format(timeLayout)); err != nil {
		return nil, fmt.Errorf("finishing store info: %w", err)
	}

	sum.FileCount = int(nextID)
	sum.DirCount = index.Len()
	s.log.Info("scan finished",
		"files", sum.FileCount, "dirs", sum.DirCount, "bytes", completed,
		"skipped_files", sum.SkippedFiles, "skipped_dirs", sum.SkippedDirs)
	return sum, nil
}
