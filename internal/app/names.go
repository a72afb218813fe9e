package app

import (
	"fmt"
	"time"
)

// fileTimeLayout is the date_time tag embedded in default output file
// names, chosen to sort lexically and stay filesystem-safe.
const fileTimeLayout = "20060102_150405"

// StoreFileName returns the default name for a scan's output store,
// built from the title and the run timestamp so repeated scans do not
// collide.
func StoreFileName(title string, t time.Time) string {
	return fmt.Sprintf("FileListDb-%s-%s.sqlite", title, t.Format(fileTimeLayout))
}

// MergeFileName returns the default name for a merged store.
func MergeFileName(t time.Time) string {
	return fmt.Sprintf("MergeFileLists-%s.sqlite", t.Format(fileTimeLayout))
}
