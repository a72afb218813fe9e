package flist

// Store is the persistence contract for a single scan inventory.
// The scanner uses the write side; export and merge use the read side.
type Store interface {
	// PutInfo writes the db_info row at the start of a scan.
	PutInfo(info *StoreInfo) error

	// SetFinished stamps db_info.finished at the end of a successful scan.
	SetFinished(finished string) error

	// InsertDirectory adds a directory row with an explicit id.
	// Ids are assigned by the DirectoryIndex, sequential from 1.
	InsertDirectory(id int64, path string) error

	// InsertFile adds a file row with an explicit id referencing dirID.
	InsertFile(id int64, fi *FileInfo, dirID int64) error

	// Flush commits any pending inserts. The scanner calls this in
	// batches so an interrupted scan leaves a valid partial store.
	Flush() error

	// Info reads the db_info row.
	Info() (*StoreInfo, error)

	// Directories returns all directory rows ordered by id.
	Directories() ([]*Directory, error)

	// Files returns all file rows joined with their directory path,
	// ordered by directory path then file name.
	Files() ([]*FileRow, error)

	// Close releases the underlying connection, rolling back any
	// uncommitted batch.
	Close() error
}

// MergedStore is the persistence contract for a merged inventory.
// All inserts between Begin and Commit are one transaction, so a failed
// merge leaves the destination untouched.
type MergedStore interface {
	Begin() error
	Commit() error

	// Tags returns the tags already present in the filelists table.
	Tags() ([]string, error)

	// MaxDirectoryID returns the highest directory id in the store,
	// or 0 when the directories table is empty.
	MaxDirectoryID() (int64, error)

	// InsertFilelist records one source store's metadata and returns
	// the assigned filelist id.
	InsertFilelist(tag, fileName string, info *StoreInfo) (int64, error)

	// InsertDirectory adds a renumbered directory row for a source.
	InsertDirectory(id int64, path string, filelistID int64) error

	// InsertFile adds a file row for a source. fileID is the file's id
	// in its source store; dirID must already be renumbered.
	InsertFile(filelistID, fileID int64, fi *FileInfo, dirID int64) error

	// CreateFilelistView creates the per-source "filelist<N>" view.
	CreateFilelistView(filelistID int64) error

	Close() error
}
