package flist

import (
	"os"
	"strings"
)

// DirectoryIndex maps directory paths to stable, sequentially assigned
// integer ids, memoized for the duration of one scan. Ids start at 1.
//
// In all-ancestors mode (the default), interning a path also interns
// every ancestor between it and the scan root, so empty intermediate
// directories are representable in the store. In used-dirs-only mode
// only the paths actually interned are recorded.
type DirectoryIndex struct {
	ids          map[string]int64
	next         int64
	root         string // stored form of the scan root; ancestor expansion stops here
	allAncestors bool
	sep          string
}

// NewDirectoryIndex creates an index for one scan. storedRoot is the
// scan root as it will appear in the store (after any trim-parent
// normalization).
func NewDirectoryIndex(storedRoot string, allAncestors bool) *DirectoryIndex {
	return &DirectoryIndex{
		ids:          make(map[string]int64),
		root:         storedRoot,
		allAncestors: allAncestors,
		sep:          string(os.PathSeparator),
	}
}

// Intern returns the id for path, assigning the next sequential id on
// first sight. onNew is called once for every newly assigned pair, in
// assignment order, before the id is returned.
func (x *DirectoryIndex) Intern(path string, onNew func(id int64, path string) error) (int64, error) {
	if !x.allAncestors {
		return x.intern(path, onNew)
	}

	var id int64
	var err error
	for _, p := range x.ancestors(path) {
		id, err = x.intern(p, onNew)
		if err != nil {
			return 0, err
		}
	}
	return id, nil
}

// Len returns the number of directories interned so far.
func (x *DirectoryIndex) Len() int {
	return len(x.ids)
}

func (x *DirectoryIndex) intern(path string, onNew func(id int64, path string) error) (int64, error) {
	if id, ok := x.ids[path]; ok {
		return id, nil
	}
	x.next++
	if onNew != nil {
		if err := onNew(x.next, path); err != nil {
			x.next--
			return 0, err
		}
	}
	x.ids[path] = x.next
	return x.next, nil
}

// ancestors lists every path from the scan root down to path, in order.
// A path outside the root (which the walk never produces) is returned
// as-is.
func (x *DirectoryIndex) ancestors(path string) []string {
	if path == x.root {
		return []string{path}
	}

	prefix := x.root + x.sep
	if x.root == x.sep {
		prefix = x.sep
	}
	if !strings.HasPrefix(path, prefix) {
		return []string{path}
	}

	out := []string{x.root}
	cur := x.root
	for _, part := range strings.Split(path[len(prefix):], x.sep) {
		if cur == x.sep {
			cur += part
		} else {
			cur += x.sep + part
		}
		out = append(out, cur)
	}
	return out
}
