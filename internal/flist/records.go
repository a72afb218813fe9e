package flist

// StoreInfo is the store-level metadata written once per scan, mirrored
// into the merged store's filelists table by the merger.
type StoreInfo struct {
	Created    string // local time, "2006-01-02 15:04:05"
	Host       string
	ScanDir    string
	Title      string
	Finished   string // empty until the scan completes
	PathSep    string // path separator of the host that produced the scan
	AllPaths   bool   // true when every ancestor directory was recorded
	DBVersion  int64
	AppName    string
	AppVersion string
}

// FileInfo holds everything recorded about one scanned file.
// A non-empty Err means the file could not be hashed; the row is still
// stored with empty digests so the inventory stays complete.
type FileInfo struct {
	Name     string
	DirName  string
	DirLevel int64
	SHA1     string
	MD5      string
	Size     int64
	Modified string // local time, truncated to whole seconds
	Err      string
}

// Directory is one row of a store's directories table.
type Directory struct {
	ID   int64
	Path string
}

// FileRow is one file row read back from a store, joined with its
// directory path.
type FileRow struct {
	ID      int64
	DirID   int64
	DirName string
	FileInfo
}
