package flist

import (
	"fmt"
	"path/filepath"
)

// MergeSource names one store to merge and an optional tag. An empty
// tag defaults to the source store's title.
type MergeSource struct {
	Path string
	Tag  string
}

// MergeSummary reports what a merge wrote.
type MergeSummary struct {
	Sources     int
	Directories int
	Files       int
}

// Merge unions the given source stores into one merged store.
//
// Every source is opened and validated before the destination is
// touched, and all destination writes happen in a single transaction,
// so a failed merge leaves no partial output. Directory ids are
// renumbered onto a fresh contiguous id space: the counter is seeded
// from the destination's current maximum (so append mode never
// collides with or renumbers existing rows), each source's directories
// are enumerated in their existing id order and assigned new ids
// consecutively, and file rows are rewritten through that mapping
// before insertion.
//
// A tag collision, among the sources or with a tag already present in
// the destination, is a FatalInputError.
func (s *Service) Merge(sources []MergeSource, openSource func(path string) (Store, error), openDest func() (MergedStore, error)) (*MergeSummary, error) {
	if len(sources) == 0 {
		return nil, Fatalf("", "no source files specified")
	}

	// Validate every source up front: open it, read its metadata, and
	// settle its tag. Nothing is written until all of this succeeds.
	type openedSource struct {
		path  string
		tag   string
		store Store
		info  *StoreInfo
	}

	opened := make([]openedSource, 0, len(sources))
	defer func() {
		for _, src := range opened {
			src.store.Close()
		}
	}()

	seen := make(map[string]string) // tag -> source path
	for _, src := range sources {
		store, err := openSource(src.Path)
		if err != nil {
			return nil, Fatalf(src.Path, "cannot open merge source: %v", err)
		}
		opened = append(opened, openedSource{path: src.Path, store: store})

		info, err := store.Info()
		if err != nil {
			return nil, Fatalf(src.Path, "not a valid filelist store: %v", err)
		}

		tag := src.Tag
		if tag == "" {
			tag = info.Title
		}
		if prev, ok := seen[tag]; ok {
			return nil, Fatalf(src.Path, "tag %q already used by source %s", tag, prev)
		}
		seen[tag] = src.Path

		last := &opened[len(opened)-1]
		last.tag = tag
		last.info = info
	}

	dest, err := openDest()
	if err != nil {
		return nil, err
	}
	defer dest.Close()

	existing, err := dest.Tags()
	if err != nil {
		return nil, fmt.Errorf("reading destination tags: %w", err)
	}
	for _, tag := range existing {
		if src, ok := seen[tag]; ok {
			return nil, Fatalf(src, "tag %q already in destination", tag)
		}
	}

	maxID, err := dest.MaxDirectoryID()
	if err != nil {
		return nil, fmt.Errorf("reading destination directory ids: %w", err)
	}
	nextID := maxID + 1

	if err := dest.Begin(); err != nil {
		return nil, fmt.Errorf("starting merge transaction: %w", err)
	}

	sum := &MergeSummary{}
	for _, src := range opened {
		s.log.Info("merging source", "path", src.path, "tag", src.tag)

		filelistID, err := dest.InsertFilelist(src.tag, filepath.Base(src.path), src.info)
		if err != nil {
			return nil, fmt.Errorf("recording filelist for %s: %w", src.path, err)
		}

		// Old-id -> new-id mapping, built in the source's id order.
		dirs, err := src.store.Directories()
		if err != nil {
			return nil, Fatalf(src.path, "reading directories: %v", err)
		}
		mapping := make(map[int64]int64, len(dirs))
		for _, d := range dirs {
			if err := dest.InsertDirectory(nextID, d.Path, filelistID); err != nil {
				return nil, fmt.Errorf("inserting directory %s: %w", d.Path, err)
			}
			mapping[d.ID] = nextID
			nextID++
		}

		rows, err := src.store.Files()
		if err != nil {
			return nil, Fatalf(src.path, "reading files: %v", err)
		}
		for _, row := range rows {
			newDirID, ok := mapping[row.DirID]
			if !ok {
				return nil, Fatalf(src.path, "file %s references unknown directory id %d", row.Name, row.DirID)
			}
			if err := dest.InsertFile(filelistID, row.ID, &row.FileInfo, newDirID); err != nil {
				return nil, fmt.Errorf("inserting file %s: %w", row.Name, err)
			}
		}

		if err := dest.CreateFilelistView(filelistID); err != nil {
			return nil, fmt.Errorf("creating filelist view: %w", err)
		}

		sum.Sources++
		sum.Directories += len(dirs)
		sum.Files += len(rows)
	}

	if err := dest.Commit(); err != nil {
		return nil, fmt.Errorf("committing merge: %w", err)
	}

	s.log.Info("merge finished",
		"sources", sum.Sources, "dirs", sum.Directories, "files", sum.Files)
	return sum, nil
}
